package trip

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/tripsearch/internal/db"
	"github.com/kailas-cloud/tripsearch/internal/domain"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
)

// store is the consumer interface for saved trips (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/trip.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a trip repository. keyPrefix namespaces keys, e.g. "tripsearch:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save stores t under its id, replacing any previous version.
func (r *Repo) Save(ctx context.Context, t domtrip.Trip) error {
	if t.ID() == "" {
		return errors.New("trip id is required")
	}
	data, err := encodeTrip(t)
	if err != nil {
		return err
	}
	key := r.tripKey(t.ID())
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns a trip by id.
func (r *Repo) Get(ctx context.Context, id string) (domtrip.Trip, error) {
	key := r.tripKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtrip.Trip{}, domain.ErrNotFound
		}
		return domtrip.Trip{}, fmt.Errorf("get %s: %w", key, err)
	}
	return decodeTrip(data)
}

// List returns all trips, newest first.
func (r *Repo) List(ctx context.Context) ([]domtrip.Trip, error) {
	keys, err := r.store.Scan(ctx, r.tripKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan trips: %w", err)
	}
	if len(keys) == 0 {
		return []domtrip.Trip{}, nil
	}

	values, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget trips: %w", err)
	}

	trips := make([]domtrip.Trip, 0, len(values))
	for i, data := range values {
		// deleted between SCAN and MGET
		if data == nil {
			continue
		}
		t, err := decodeTrip(data)
		if err != nil {
			return nil, fmt.Errorf("parse trip %s: %w", keys[i], err)
		}
		trips = append(trips, t)
	}

	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt().After(trips[j].CreatedAt())
	})

	return trips, nil
}

// Delete removes a trip.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.tripKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Key pattern: {prefix}trip:{id}

func (r *Repo) tripKey(id string) string {
	return fmt.Sprintf("%strip:%s", r.keyPrefix, id)
}
