package trip

import (
	"context"

	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
)

// Repository defines the storage contract for saved trips.
type Repository interface {
	Save(ctx context.Context, t domtrip.Trip) error
	Get(ctx context.Context, id string) (domtrip.Trip, error)
	List(ctx context.Context) ([]domtrip.Trip, error)
	Delete(ctx context.Context, id string) error
}
