package search

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/request"
	"github.com/kailas-cloud/tripsearch/internal/logger"
	"github.com/kailas-cloud/tripsearch/internal/metrics"
)

// Service runs the location search pipeline: fetch, rank, truncate.
type Service struct {
	fetcher  Fetcher
	maxLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithMaxLimit caps the number of results per search. 0 leaves it unbounded.
func WithMaxLimit(n int) Option {
	return func(s *Service) { s.maxLimit = n }
}

// New creates a search service.
func New(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{fetcher: fetcher}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search fetches candidates for req and returns them ranked for the caller.
func (s *Service) Search(ctx context.Context, req request.Request) ([]candidate.Scored, error) {
	req = req.WithLimitCap(s.maxLimit)
	plan := req.FetchPlan()

	log := logger.FromContext(ctx).With(
		zap.String("query", req.Query()),
		zap.Bool("bias", req.HasBias()),
		zap.Int("fetch_count", plan.EffectiveFetchCount),
	)

	cands, err := s.fetcher.Fetch(ctx, plan, req.Query())
	if err != nil {
		log.Warn("geocoder fetch failed", zap.Error(err))
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	ranked := Rank(cands, req.CallerLocation(), req.Limit())

	metrics.SearchBiasTotal.WithLabelValues(strconv.FormatBool(req.HasBias())).Inc()
	metrics.SearchResults.Observe(float64(len(ranked)))
	log.Debug("search ranked",
		zap.Int("fetched", len(cands)),
		zap.Int("returned", len(ranked)),
	)

	return ranked, nil
}
