package chi

import (
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GeocodeParams are the query parameters of GET /api/geocode.
type GeocodeParams struct {
	Q     *string
	Limit *int
	Lat   *float64
	Lng   *float64
}

// GeocodeResult is one ranked location. Lat and Lng are null when the provider
// returned coordinates that could not be used; Distance and Score are present
// only for searches biased by a caller location.
type GeocodeResult struct {
	Name       string   `json:"name"`
	FullName   string   `json:"full_name"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Type       string   `json:"type"`
	Importance float64  `json:"importance"`
	Distance   *float64 `json:"distance,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

// LatLng is a bare coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlanRequest is the body of POST /api/plan.
type PlanRequest struct {
	Locations    []itinerary.Location `json:"locations"`
	Days         *int                 `json:"days"`
	UserLocation *LatLng              `json:"userLocation"`
	UserTheme    string               `json:"userTheme"`
}

// SaveTripRequest is the body of POST /api/trips.
type SaveTripRequest struct {
	Title     string               `json:"title"`
	Theme     string               `json:"theme"`
	Locations []itinerary.Location `json:"locations"`
	Itinerary itinerary.Itinerary  `json:"itinerary"`
}

// TripResponse is a saved trip.
type TripResponse struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Title     string               `json:"title"`
	Theme     string               `json:"theme"`
	Locations []itinerary.Location `json:"locations"`
	Itinerary itinerary.Itinerary  `json:"itinerary"`
}

// TripListResponse wraps GET /api/trips.
type TripListResponse struct {
	Items []TripResponse `json:"items"`
}

// UsageResponse reports planner token consumption.
type UsageResponse struct {
	Period          string     `json:"period"`
	PeriodStartAt   time.Time  `json:"period_start_at"`
	PeriodEndAt     time.Time  `json:"period_end_at"`
	TokensUsed      int64      `json:"tokens_used"`
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
