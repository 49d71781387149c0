package trip

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/db"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
)

const testPrefix = "tripsearch:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	mgetFn   func(ctx context.Context, keys []string) ([][]byte, error)
	setFn    func(ctx context.Context, key string, value []byte) error
	delFn    func(ctx context.Context, key string) error
	existsFn func(ctx context.Context, key string) (bool, error)
	scanFn   func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

// memStore is a map-backed store for round-trip tests.
type memStore struct {
	mockStore
	data map[string][]byte
}

func newMemStore() *memStore {
	m := &memStore{data: map[string][]byte{}}
	m.getFn = func(_ context.Context, key string) ([]byte, error) {
		v, ok := m.data[key]
		if !ok {
			return nil, db.ErrKeyNotFound
		}
		return v, nil
	}
	m.setFn = func(_ context.Context, key string, value []byte) error {
		m.data[key] = value
		return nil
	}
	m.delFn = func(_ context.Context, key string) error {
		delete(m.data, key)
		return nil
	}
	m.existsFn = func(_ context.Context, key string) (bool, error) {
		_, ok := m.data[key]
		return ok, nil
	}
	m.scanFn = func(_ context.Context, _ string) ([]string, error) {
		keys := make([]string, 0, len(m.data))
		for k := range m.data {
			keys = append(keys, k)
		}
		return keys, nil
	}
	m.mgetFn = func(_ context.Context, keys []string) ([][]byte, error) {
		out := make([][]byte, len(keys))
		for i, k := range keys {
			out[i] = m.data[k]
		}
		return out, nil
	}
	return m
}

func testItinerary() itinerary.Itinerary {
	return itinerary.Itinerary{
		Title: "Kyoto weekend",
		Days: []itinerary.Day{{
			Day:   1,
			Theme: "Temples",
			Places: []itinerary.Stop{{
				Name: "Kinkaku-ji", Lat: 35.0394, Lng: 135.7292,
				StartTime: "09:00", EndTime: "10:30",
			}},
		}},
	}
}

func makeTrip(t *testing.T, id string, createdAt time.Time) domtrip.Trip {
	t.Helper()
	tr, err := domtrip.New("", "", []itinerary.Location{{Name: "Kinkaku-ji", Lat: 35.0394, Lng: 135.7292}}, testItinerary())
	if err != nil {
		t.Fatalf("new trip: %v", err)
	}
	return tr.WithIdentity(id, createdAt)
}
