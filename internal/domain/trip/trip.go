package trip

import (
	"errors"
	"strings"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
)

// DefaultTheme is used when neither the caller nor the itinerary names a theme.
const DefaultTheme = "Trip"

// MaxTitleLength caps the stored title.
const MaxTitleLength = 200

// Trip is a saved itinerary (immutable value object).
type Trip struct {
	id        string
	createdAt time.Time
	title     string
	theme     string
	locations []itinerary.Location
	itinerary itinerary.Itinerary
}

// New validates and creates a Trip that has not been stored yet.
// An empty title falls back to the itinerary title; an empty theme to the first day's theme.
func New(title, theme string, locations []itinerary.Location, it itinerary.Itinerary) (Trip, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(it.Title)
	}
	if title == "" {
		return Trip{}, errors.New("title is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return Trip{}, errors.New("title too long (max 200 characters)")
	}
	if err := it.Validate(); err != nil {
		return Trip{}, err //nolint:wrapcheck // domain validation message
	}

	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = it.FirstTheme()
	}
	if theme == "" {
		theme = DefaultTheme
	}

	if locations == nil {
		locations = []itinerary.Location{}
	}

	return Trip{
		title:     title,
		theme:     theme,
		locations: locations,
		itinerary: it,
	}, nil
}

// Reconstruct creates a Trip without validation (storage hydration).
func Reconstruct(
	id string, createdAt time.Time, title, theme string,
	locations []itinerary.Location, it itinerary.Itinerary,
) Trip {
	return Trip{id: id, createdAt: createdAt, title: title, theme: theme, locations: locations, itinerary: it}
}

// WithIdentity returns a copy with the storage id and creation time assigned.
func (t Trip) WithIdentity(id string, createdAt time.Time) Trip {
	t.id = id
	t.createdAt = createdAt
	return t
}

// ID returns the trip identifier.
func (t *Trip) ID() string { return t.id }

// CreatedAt returns when the trip was saved.
func (t *Trip) CreatedAt() time.Time { return t.createdAt }

// Title returns the trip title.
func (t *Trip) Title() string { return t.title }

// Theme returns the trip theme.
func (t *Trip) Theme() string { return t.theme }

// Locations returns the places the plan was generated from.
func (t *Trip) Locations() []itinerary.Location { return t.locations }

// Itinerary returns the saved plan.
func (t *Trip) Itinerary() itinerary.Itinerary { return t.itinerary }
