package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
)

// --- Mocks ---

type mockRepo struct {
	saved      domtrip.Trip
	getResult  domtrip.Trip
	listResult []domtrip.Trip
	saveErr    error
	getErr     error
	listErr    error
	deleteErr  error
	deletedID  string
}

func (m *mockRepo) Save(_ context.Context, t domtrip.Trip) error {
	m.saved = t
	return m.saveErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domtrip.Trip, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domtrip.Trip, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.deleteErr
}

func newTestService(repo Repository) *Service {
	svc := New(repo)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "trip-1" }
	return svc
}

func sampleItinerary() itinerary.Itinerary {
	return itinerary.Itinerary{
		Title: "Osaka eats",
		Days:  []itinerary.Day{{Day: 1, Theme: "Street food"}},
	}
}

// --- Tests ---

func TestSave_AssignsIdentity(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	tr, err := svc.Save(context.Background(), "My trip", "", nil, sampleItinerary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.ID() != "trip-1" {
		t.Errorf("expected id trip-1, got %q", tr.ID())
	}
	if !tr.CreatedAt().Equal(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created_at %v", tr.CreatedAt())
	}
	if tr.Theme() != "Street food" {
		t.Errorf("expected theme from first day, got %q", tr.Theme())
	}
	if repo.saved.ID() != "trip-1" {
		t.Error("repository did not receive the trip")
	}
}

func TestSave_DefaultIDIsUUID(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	tr, err := svc.Save(context.Background(), "My trip", "", nil, sampleItinerary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.ID()) != 36 {
		t.Errorf("expected uuid, got %q", tr.ID())
	}
}

func TestSave_InvalidItinerary(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	_, err := svc.Save(context.Background(), "My trip", "", nil, itinerary.Itinerary{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if repo.saved.ID() != "" {
		t.Error("invalid trip must not be stored")
	}
}

func TestSave_RepoError(t *testing.T) {
	repoErr := errors.New("store down")
	svc := newTestService(&mockRepo{saveErr: repoErr})

	_, err := svc.Save(context.Background(), "My trip", "", nil, sampleItinerary())
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{getErr: domain.ErrNotFound})

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	a := domtrip.Reconstruct("a", time.Now(), "A", "x", nil, sampleItinerary())
	svc := newTestService(&mockRepo{listResult: []domtrip.Trip{a}})

	trips, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID() != "a" {
		t.Errorf("unexpected trips %v", trips)
	}
}

func TestList_Error(t *testing.T) {
	listErr := errors.New("boom")
	svc := newTestService(&mockRepo{listErr: listErr})

	if _, err := svc.List(context.Background()); !errors.Is(err, listErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != "abc" {
		t.Errorf("expected delete of abc, got %q", repo.deletedID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{deleteErr: domain.ErrNotFound})

	if err := svc.Delete(context.Background(), "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
