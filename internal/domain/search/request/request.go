package request

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/geo"
)

// Search parameter defaults.
const (
	DefaultLimit = 5
	// FetchMultiplier widens the upstream fetch when results will be re-ranked.
	FetchMultiplier = 5
	// MinBiasedFetch is the floor for the upstream fetch when a caller location is known.
	MinBiasedFetch = 20
	// BiasHalfWidthDeg is the half-width of the advisory viewbox (~100 km).
	BiasHalfWidthDeg = 1.0
)

// FetchPlan describes how many raw candidates to request and which bias to attach.
type FetchPlan struct {
	EffectiveFetchCount int
	SpatialBias         *geo.BoundingBox
}

// Request is a normalized location search.
type Request struct {
	query  string
	limit  int
	caller *geo.Point
}

// Normalize validates raw query parameters.
// A missing or non-positive limit becomes DefaultLimit. The caller location is kept only
// when both coordinates are present and in range; anything else disables the bias.
func Normalize(query string, limit *int, lat, lng *float64) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}

	l := DefaultLimit
	if limit != nil && *limit >= 1 {
		l = *limit
	}

	var caller *geo.Point
	if lat != nil && lng != nil {
		if p, err := geo.NewPoint(*lat, *lng); err == nil {
			caller = &p
		}
	}

	return Request{query: query, limit: l, caller: caller}, nil
}

// Query returns the search text.
func (r Request) Query() string { return r.query }

// Limit returns the number of results the caller asked for.
func (r Request) Limit() int { return r.limit }

// CallerLocation returns the bias point, or nil when the search is unbiased.
func (r Request) CallerLocation() *geo.Point { return r.caller }

// HasBias reports whether a caller location is attached.
func (r Request) HasBias() bool { return r.caller != nil }

// WithLimitCap returns a copy whose limit does not exceed maxLimit. maxLimit <= 0 means unbounded.
func (r Request) WithLimitCap(maxLimit int) Request {
	if maxLimit > 0 && r.limit > maxLimit {
		r.limit = maxLimit
	}
	return r
}

// FetchPlan derives the upstream fetch size and advisory viewbox.
func (r Request) FetchPlan() FetchPlan {
	if r.caller == nil {
		return FetchPlan{EffectiveFetchCount: r.limit}
	}

	count := r.limit
	if r.limit <= math.MaxInt/FetchMultiplier {
		count = r.limit * FetchMultiplier
	}
	if count < MinBiasedFetch {
		count = MinBiasedFetch
	}

	box := geo.BoxAround(*r.caller, BiasHalfWidthDeg)
	return FetchPlan{EffectiveFetchCount: count, SpatialBias: &box}
}
