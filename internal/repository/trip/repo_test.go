package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain"
)

func TestSave_WritesJSONUnderPrefixedKey(t *testing.T) {
	var gotKey string
	var gotData []byte
	ms := &mockStore{
		setFn: func(_ context.Context, key string, value []byte) error {
			gotKey, gotData = key, value
			return nil
		},
	}
	r := New(ms, testPrefix)

	tr := makeTrip(t, "abc", time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if err := r.Save(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "tripsearch:trip:abc" {
		t.Errorf("unexpected key %q", gotKey)
	}
	if len(gotData) == 0 || gotData[0] != '{' {
		t.Errorf("expected JSON object, got %q", gotData)
	}
}

func TestSave_RequiresID(t *testing.T) {
	r := New(&mockStore{}, testPrefix)
	if err := r.Save(context.Background(), makeTrip(t, "", time.Now())); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestSave_StoreError(t *testing.T) {
	storeErr := errors.New("boom")
	r := New(&mockStore{
		setFn: func(context.Context, string, []byte) error { return storeErr },
	}, testPrefix)

	if err := r.Save(context.Background(), makeTrip(t, "abc", time.Now())); !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	ms := newMemStore()
	r := New(ms, testPrefix)

	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	if err := r.Save(context.Background(), makeTrip(t, "abc", created)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := r.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID() != "abc" || !got.CreatedAt().Equal(created) {
		t.Errorf("identity not preserved: %s %v", got.ID(), got.CreatedAt())
	}
	if got.Title() != "Kyoto weekend" || got.Theme() != "Temples" {
		t.Errorf("unexpected title/theme %q %q", got.Title(), got.Theme())
	}
	if len(got.Locations()) != 1 || got.Locations()[0].Name != "Kinkaku-ji" {
		t.Errorf("unexpected locations %+v", got.Locations())
	}
	it := got.Itinerary()
	if len(it.Days) != 1 || it.Days[0].Places[0].StartTime != "09:00" {
		t.Errorf("unexpected itinerary %+v", it)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := New(&mockStore{}, testPrefix)

	_, err := r.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_CorruptPayload(t *testing.T) {
	r := New(&mockStore{
		getFn: func(context.Context, string) ([]byte, error) { return []byte("not json"), nil },
	}, testPrefix)

	if _, err := r.Get(context.Background(), "abc"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestList_NewestFirst(t *testing.T) {
	ms := newMemStore()
	r := New(ms, testPrefix)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "mid"} {
		offsets := []time.Duration{0, 48 * time.Hour, 24 * time.Hour}
		if err := r.Save(context.Background(), makeTrip(t, id, base.Add(offsets[i]))); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	trips, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(trips))
	}
	want := []string{"newest", "mid", "old"}
	for i, tr := range trips {
		if tr.ID() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], tr.ID())
		}
	}
}

func TestList_Empty(t *testing.T) {
	r := New(&mockStore{}, testPrefix)

	trips, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trips == nil || len(trips) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", trips)
	}
}

func TestList_ScanPattern(t *testing.T) {
	var pattern string
	r := New(&mockStore{
		scanFn: func(_ context.Context, p string) ([]string, error) {
			pattern = p
			return nil, nil
		},
	}, testPrefix)

	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != "tripsearch:trip:*" {
		t.Errorf("unexpected pattern %q", pattern)
	}
}

func TestList_SkipsVanishedKeys(t *testing.T) {
	ms := newMemStore()
	r := New(ms, testPrefix)
	if err := r.Save(context.Background(), makeTrip(t, "a", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"tripsearch:trip:a", "tripsearch:trip:gone"}, nil
	}

	trips, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trips) != 1 || trips[0].ID() != "a" {
		t.Errorf("unexpected trips %v", trips)
	}
}

func TestList_ScanError(t *testing.T) {
	scanErr := errors.New("boom")
	r := New(&mockStore{
		scanFn: func(context.Context, string) ([]string, error) { return nil, scanErr },
	}, testPrefix)

	if _, err := r.List(context.Background()); !errors.Is(err, scanErr) {
		t.Fatalf("expected wrapped scan error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ms := newMemStore()
	r := New(ms, testPrefix)
	if err := r.Save(context.Background(), makeTrip(t, "abc", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := r.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(context.Background(), "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	r := New(&mockStore{}, testPrefix)

	if err := r.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
