package trip

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
)

// tripDoc is the stored JSON form of a saved trip.
type tripDoc struct {
	ID        string               `json:"id"`
	CreatedAt int64                `json:"created_at"`
	Title     string               `json:"title"`
	Theme     string               `json:"theme"`
	Locations []itinerary.Location `json:"locations"`
	Itinerary itinerary.Itinerary  `json:"itinerary"`
}

func encodeTrip(t domtrip.Trip) ([]byte, error) {
	data, err := json.Marshal(tripDoc{
		ID:        t.ID(),
		CreatedAt: t.CreatedAt().UnixMilli(),
		Title:     t.Title(),
		Theme:     t.Theme(),
		Locations: t.Locations(),
		Itinerary: t.Itinerary(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal trip: %w", err)
	}
	return data, nil
}

func decodeTrip(data []byte) (domtrip.Trip, error) {
	var doc tripDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domtrip.Trip{}, fmt.Errorf("unmarshal trip: %w", err)
	}
	if doc.Locations == nil {
		doc.Locations = []itinerary.Location{}
	}
	return domtrip.Reconstruct(
		doc.ID, time.UnixMilli(doc.CreatedAt).UTC(), doc.Title, doc.Theme, doc.Locations, doc.Itinerary,
	), nil
}
