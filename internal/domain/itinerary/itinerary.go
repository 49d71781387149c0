package itinerary

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/geo"
)

// Plan request limits.
const (
	MaxLocations = 10
	MinDays      = 1
	MaxDays      = 30
	// AutoDaysMin and AutoDaysMax bound the model's choice when days are not fixed.
	AutoDaysMin = 1
	AutoDaysMax = 7
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Location is a place the traveller picked.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Stop is one visit inside a day.
type Stop struct {
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Reason          string  `json:"reason"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	StayDuration    string  `json:"stay_duration"`
	TransportDetail string  `json:"transport_detail,omitempty"`
}

// Day is one day of an itinerary.
type Day struct {
	Day    int    `json:"day"`
	Theme  string `json:"theme"`
	Places []Stop `json:"places"`
}

// Itinerary is a generated day-by-day plan.
type Itinerary struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// PlanRequest is a validated itinerary generation request.
type PlanRequest struct {
	locations    []Location
	days         *int
	userLocation *geo.Point
	theme        string
}

// NewPlanRequest validates inputs. Either a location or a theme is required.
// A user location outside valid ranges is dropped rather than rejected.
func NewPlanRequest(locations []Location, days *int, userLocation *geo.Point, theme string) (PlanRequest, error) {
	theme = strings.TrimSpace(theme)
	if len(locations) == 0 && theme == "" {
		return PlanRequest{}, fmt.Errorf("%w: locations or theme required", domain.ErrInvalidRequest)
	}
	if len(locations) > MaxLocations {
		return PlanRequest{}, fmt.Errorf("%w: at most %d locations", domain.ErrInvalidRequest, MaxLocations)
	}
	for i, l := range locations {
		if strings.TrimSpace(l.Name) == "" {
			return PlanRequest{}, fmt.Errorf("%w: location %d has no name", domain.ErrInvalidRequest, i)
		}
	}
	if days != nil && (*days < MinDays || *days > MaxDays) {
		return PlanRequest{}, fmt.Errorf("%w: days must be between %d and %d", domain.ErrInvalidRequest, MinDays, MaxDays)
	}

	var user *geo.Point
	if userLocation != nil && geo.ValidateCoordinates(userLocation.Lat, userLocation.Lng) {
		p := *userLocation
		user = &p
	}

	return PlanRequest{
		locations:    append([]Location(nil), locations...),
		days:         days,
		userLocation: user,
		theme:        theme,
	}, nil
}

// Locations returns the picked places.
func (r PlanRequest) Locations() []Location { return r.locations }

// Days returns the fixed day count, or nil when the model chooses.
func (r PlanRequest) Days() *int { return r.days }

// UserLocation returns the traveller's current position, if known.
func (r PlanRequest) UserLocation() *geo.Point { return r.userLocation }

// Theme returns the free-text theme or note.
func (r PlanRequest) Theme() string { return r.theme }

// HasLocations reports whether the plan optimises a given list rather than recommending places.
func (r PlanRequest) HasLocations() bool { return len(r.locations) > 0 }

// ValidTime reports whether s is a 24h "HH:MM" time.
func ValidTime(s string) bool { return hhmm.MatchString(s) }

// Sanitize blanks malformed stop times and renumbers days that are missing a number.
// It returns how many stops were altered.
func (it *Itinerary) Sanitize() int {
	fixed := 0
	for d := range it.Days {
		day := &it.Days[d]
		if day.Day <= 0 {
			day.Day = d + 1
		}
		if day.Places == nil {
			day.Places = []Stop{}
		}
		for s := range day.Places {
			stop := &day.Places[s]
			altered := false
			if stop.StartTime != "" && !ValidTime(stop.StartTime) {
				stop.StartTime = ""
				altered = true
			}
			if stop.EndTime != "" && !ValidTime(stop.EndTime) {
				stop.EndTime = ""
				altered = true
			}
			if altered {
				fixed++
			}
		}
	}
	return fixed
}

// Validate checks the minimal shape of a generated itinerary.
func (it *Itinerary) Validate() error {
	if len(it.Days) == 0 {
		return errors.New("itinerary has no days")
	}
	return nil
}

// FirstTheme returns the first day's theme, or "" when there is none.
func (it *Itinerary) FirstTheme() string {
	if len(it.Days) == 0 {
		return ""
	}
	return it.Days[0].Theme
}
