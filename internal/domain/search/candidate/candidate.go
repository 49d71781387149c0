package candidate

import (
	"math"
	"strings"

	"github.com/kailas-cloud/tripsearch/internal/domain/geo"
)

// Candidate is one raw match returned by the geocoding provider.
type Candidate struct {
	displayName string
	shortName   string
	lat         float64
	lng         float64
	hasCoords   bool
	category    string
	importance  float64
}

// New creates a candidate. An empty shortName is derived from the first
// comma-delimited segment of displayName. Importance is clamped to [0,1].
func New(displayName, shortName string, lat, lng float64, category string, importance float64) Candidate {
	c := Candidate{
		displayName: displayName,
		shortName:   shortName,
		lat:         lat,
		lng:         lng,
		hasCoords:   geo.ValidateCoordinates(lat, lng),
		category:    category,
		importance:  clampImportance(importance),
	}
	if c.shortName == "" {
		c.shortName = ShortNameOf(displayName)
	}
	return c
}

// WithoutCoordinates creates a candidate whose coordinates could not be parsed.
// It is kept in the batch but can only be ranked by importance.
func WithoutCoordinates(displayName, shortName, category string, importance float64) Candidate {
	c := New(displayName, shortName, 0, 0, category, importance)
	c.hasCoords = false
	return c
}

// ShortNameOf returns the first comma-delimited segment of a display name.
func ShortNameOf(displayName string) string {
	first, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(first)
}

func clampImportance(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DisplayName returns the full address-like label.
func (c Candidate) DisplayName() string { return c.displayName }

// ShortName returns the primary label.
func (c Candidate) ShortName() string { return c.shortName }

// Lat returns the latitude. Meaningless when HasCoordinates is false.
func (c Candidate) Lat() float64 { return c.lat }

// Lng returns the longitude. Meaningless when HasCoordinates is false.
func (c Candidate) Lng() float64 { return c.lng }

// HasCoordinates reports whether the provider sent usable coordinates.
func (c Candidate) HasCoordinates() bool { return c.hasCoords }

// Point returns the candidate position.
func (c Candidate) Point() geo.Point { return geo.Point{Lat: c.lat, Lng: c.lng} }

// Category returns the provider feature type (e.g. "station", "restaurant").
func (c Candidate) Category() string { return c.category }

// Importance returns the provider relevance signal in [0,1].
func (c Candidate) Importance() float64 { return c.importance }

// Scored is a candidate annotated for ranking.
type Scored struct {
	Candidate
	distanceKm *float64
	score      *float64
}

// Unscored wraps a candidate with no ranking data (no caller location).
func Unscored(c Candidate) Scored { return Scored{Candidate: c} }

// WithScore wraps a candidate with a score and no distance.
func WithScore(c Candidate, score float64) Scored {
	return Scored{Candidate: c, score: &score}
}

// WithDistance wraps a candidate with both distance and score.
func WithDistance(c Candidate, distanceKm, score float64) Scored {
	return Scored{Candidate: c, distanceKm: &distanceKm, score: &score}
}

// DistanceKm returns the distance from the caller, or nil when not computed.
func (s Scored) DistanceKm() *float64 { return s.distanceKm }

// Score returns the ordering score, or nil when not computed.
func (s Scored) Score() *float64 { return s.score }

// ScoreOrZero returns the score or 0.
func (s Scored) ScoreOrZero() float64 {
	if s.score == nil {
		return 0
	}
	return *s.score
}
