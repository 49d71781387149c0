package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
	"github.com/kailas-cloud/tripsearch/internal/logger"
)

// Service handles saved trip CRUD operations.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a trip service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Save validates a trip, assigns its id and creation time, and stores it.
func (s *Service) Save(
	ctx context.Context, title, theme string, locations []itinerary.Location, it itinerary.Itinerary,
) (domtrip.Trip, error) {
	t, err := domtrip.New(title, theme, locations, it)
	if err != nil {
		return domtrip.Trip{}, fmt.Errorf("validate trip: %w: %w", domain.ErrInvalidRequest, err)
	}

	t = t.WithIdentity(s.newID(), s.now().UTC())
	if err := s.repo.Save(ctx, t); err != nil {
		return domtrip.Trip{}, fmt.Errorf("save trip: %w", err)
	}

	logger.FromContext(ctx).Info("trip saved",
		zap.String("trip_id", t.ID()),
		zap.Int("days", len(it.Days)),
	)
	return t, nil
}

// Get retrieves a trip by id.
func (s *Service) Get(ctx context.Context, id string) (domtrip.Trip, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtrip.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// List returns all saved trips, newest first.
func (s *Service) List(ctx context.Context) ([]domtrip.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// Delete removes a trip.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}
