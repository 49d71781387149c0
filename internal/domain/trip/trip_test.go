package trip

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
)

func sampleItinerary() itinerary.Itinerary {
	return itinerary.Itinerary{
		Title: "Kyoto in two days",
		Days: []itinerary.Day{
			{Day: 1, Theme: "Temples", Places: []itinerary.Stop{{Name: "Kinkaku-ji"}}},
			{Day: 2, Theme: "Markets", Places: []itinerary.Stop{{Name: "Nishiki"}}},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	tr, err := New("", "", nil, sampleItinerary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Title() != "Kyoto in two days" {
		t.Errorf("Title() = %q", tr.Title())
	}
	if tr.Theme() != "Temples" {
		t.Errorf("Theme() = %q, want first day theme", tr.Theme())
	}
	if tr.Locations() == nil {
		t.Error("Locations() must not be nil")
	}
	if tr.ID() != "" || !tr.CreatedAt().IsZero() {
		t.Error("new trip must not have identity")
	}
}

func TestNew_ThemeFallsBackToTrip(t *testing.T) {
	it := sampleItinerary()
	it.Days[0].Theme = ""
	tr, err := New("Mine", "", nil, it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Theme() != DefaultTheme {
		t.Errorf("Theme() = %q, want %q", tr.Theme(), DefaultTheme)
	}
}

func TestNew_ExplicitValuesWin(t *testing.T) {
	locs := []itinerary.Location{{Name: "Arashiyama", Lat: 35.01, Lng: 135.67}}
	tr, err := New("  Autumn  ", "Leaves", locs, sampleItinerary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Title() != "Autumn" || tr.Theme() != "Leaves" || len(tr.Locations()) != 1 {
		t.Errorf("unexpected trip %+v", tr)
	}
}

func TestNew_Invalid(t *testing.T) {
	it := sampleItinerary()
	it.Title = ""
	if _, err := New("", "", nil, it); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := New(strings.Repeat("x", MaxTitleLength+1), "", nil, sampleItinerary()); err == nil {
		t.Error("expected error for long title")
	}
	if _, err := New("x", "", nil, itinerary.Itinerary{}); err == nil {
		t.Error("expected error for empty itinerary")
	}
}

func TestWithIdentity(t *testing.T) {
	tr, _ := New("x", "", nil, sampleItinerary())
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	saved := tr.WithIdentity("abc", ts)
	if saved.ID() != "abc" || !saved.CreatedAt().Equal(ts) {
		t.Errorf("unexpected identity %q %v", saved.ID(), saved.CreatedAt())
	}
	if tr.ID() != "" {
		t.Error("WithIdentity must not mutate the receiver")
	}
}
