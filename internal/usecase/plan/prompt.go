package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
)

// DefaultLanguage is the output language of generated itineraries.
const DefaultLanguage = "Traditional Chinese (Taiwan)"

// defaultTheme is used for theme-only plans when the traveller gave no theme text.
const defaultTheme = "popular sightseeing"

// SystemInstruction returns the fixed system message for the given output language.
func SystemInstruction(language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return "You are a professional travel planner. You MUST output valid JSON only. No markdown. " +
		"All text content (reasons, themes, titles, durations, transport details) MUST be in " + language + "."
}

const schemaExample = `{
  "title": "Trip title",
  "days": [
    {
      "day": 1,
      "theme": "Day theme",
      "places": [
        {
          "name": "Place name",
          "lat": 35.0,
          "lng": 135.0,
          "reason": "Why to visit",
          "start_time": "10:00",
          "end_time": "12:00",
          "stay_duration": "2 hours",
          "transport_detail": "How to get here from the previous stop"
        }
      ]
    }
  ]
}`

// BuildPrompt assembles the user message for a plan request.
func BuildPrompt(req itinerary.PlanRequest, language string) domain.Prompt {
	if language == "" {
		language = DefaultLanguage
	}

	var b strings.Builder
	b.WriteString("You are a professional tour guide. Plan a trip from the information below.\n\n")

	if req.HasLocations() {
		writeLocationsContext(&b, req)
	} else {
		writeThemeContext(&b, req)
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("0. " + daysInstruction(req.Days()) + "\n")
	if req.HasLocations() {
		b.WriteString(clusteringRule)
	} else {
		b.WriteString(recommendationRule)
	}
	b.WriteString(timingRule)
	fmt.Fprintf(&b, "3. Give a reason for every place, written in %s.\n", language)
	b.WriteString("4. Transport: describe how to travel from the previous place to this one " +
		"(for the first stop write that it is the starting point).\n")
	b.WriteString("5. Return plain JSON only, without markdown code fences.\n")
	b.WriteString("6. The JSON must follow this structure, with all times formatted as \"HH:MM\":\n")
	b.WriteString(schemaExample)
	b.WriteString("\n")

	return domain.Prompt{User: b.String()}
}

func writeLocationsContext(b *strings.Builder, req itinerary.PlanRequest) {
	b.WriteString("The traveller selected these places:\n")
	for _, l := range req.Locations() {
		fmt.Fprintf(b, "- %s (%s, %s)\n", l.Name, formatCoord(l.Lat), formatCoord(l.Lng))
	}
	if u := req.UserLocation(); u != nil {
		fmt.Fprintf(b, "Current traveller position: (%s, %s). If reasonable, start day 1 near this position.\n",
			formatCoord(u.Lat), formatCoord(u.Lng))
	}
	if req.Theme() != "" {
		fmt.Fprintf(b, "Traveller preferences or notes: %s\n", req.Theme())
	}
}

func writeThemeContext(b *strings.Builder, req itinerary.PlanRequest) {
	theme := req.Theme()
	if theme == "" {
		theme = defaultTheme
	}
	b.WriteString("The traveller did not pick places. Recommend places that match the theme.\n")
	fmt.Fprintf(b, "Trip theme: %q\n", theme)
	if u := req.UserLocation(); u != nil {
		fmt.Fprintf(b, "Current traveller position: (%s, %s).\n", formatCoord(u.Lat), formatCoord(u.Lng))
	}
}

func daysInstruction(days *int) string {
	if days != nil {
		return fmt.Sprintf("Plan a trip of exactly %d days.", *days)
	}
	return fmt.Sprintf("Choose the number of days yourself (%d to %d) from how many places there are "+
		"and how far apart they are. Many places need more days so the plan is not rushed; "+
		"few places get a short highlight plan.", itinerary.AutoDaysMin, itinerary.AutoDaysMax)
}

const clusteringRule = `1. City clustering (critical):
   - First work out which city or area every place belongs to.
   - Places in the same city MUST be scheduled on consecutive days.
   - Never jump back and forth between cities (A -> B -> A is forbidden).
   - Move between any two cities at most once.
`

const recommendationRule = `1. Recommendations: pick 3-4 highly rated places per day that fit the theme,
   keeping the distance between them reasonable.
`

const timingRule = `2. Timing (important):
   - Each day starts around 09:00 or 10:00.
   - Estimate a sensible stay for every place (e.g. museum 2 hours, park 1 hour).
   - Estimate the travel time between consecutive places and derive each arrival and departure time.
   - Times must be consistent: previous end time + travel time = next start time.
   - Across days, the last place of day N and the first place of day N+1 must connect sensibly.
`

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
