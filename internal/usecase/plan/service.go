package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	"github.com/kailas-cloud/tripsearch/internal/logger"
)

// Service generates itineraries through a chat completion provider.
type Service struct {
	completer domain.Completer
	language  string
}

// New creates a plan service. completer may be nil when no provider is configured;
// Plan then fails with domain.ErrPlannerNotConfigured.
func New(completer domain.Completer, language string) *Service {
	if language == "" {
		language = DefaultLanguage
	}
	return &Service{completer: completer, language: language}
}

// Plan builds a prompt for req, runs the completion and decodes the itinerary.
func (s *Service) Plan(ctx context.Context, req itinerary.PlanRequest) (itinerary.Itinerary, error) {
	if s.completer == nil {
		return itinerary.Itinerary{}, domain.ErrPlannerNotConfigured
	}

	log := logger.FromContext(ctx).With(
		zap.Int("locations", len(req.Locations())),
		zap.Bool("theme_only", !req.HasLocations()),
	)

	res, err := s.completer.Complete(ctx, BuildPrompt(req, s.language))
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("generate itinerary: %w", err)
	}

	it, err := decodeItinerary(res.Content)
	if err != nil {
		log.Warn("planner returned unusable itinerary", zap.Error(err), zap.Int("content_bytes", len(res.Content)))
		return itinerary.Itinerary{}, fmt.Errorf("%w: %w", domain.ErrPlannerProviderError, err)
	}

	if fixed := it.Sanitize(); fixed > 0 {
		log.Warn("planner itinerary had malformed stop times", zap.Int("stops", fixed))
	}

	log.Info("itinerary generated",
		zap.Int("days", len(it.Days)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return it, nil
}

// decodeItinerary parses model output, tolerating a stray markdown fence.
func decodeItinerary(content string) (itinerary.Itinerary, error) {
	content = stripFence(content)
	if content == "" {
		return itinerary.Itinerary{}, errors.New("empty completion")
	}

	var it itinerary.Itinerary
	if err := json.Unmarshal([]byte(content), &it); err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("decode itinerary: %w", err)
	}
	if err := it.Validate(); err != nil {
		return itinerary.Itinerary{}, err //nolint:wrapcheck // domain validation message
	}
	return it, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
