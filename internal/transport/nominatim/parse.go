package nominatim

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
)

// parseCandidates converts a search response body into candidates.
// ok is false when the body is not a JSON array; the result is then empty.
// Non-object elements are skipped. Coordinates that do not parse as numbers
// yield a candidate flagged as having no usable coordinates.
func parseCandidates(body []byte) (cands []candidate.Candidate, ok bool) {
	if !gjson.ValidBytes(body) {
		return []candidate.Candidate{}, false
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return []candidate.Candidate{}, false
	}

	cands = make([]candidate.Candidate, 0, len(root.Array()))
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		cands = append(cands, parseItem(item))
		return true
	})
	return cands, true
}

func parseItem(item gjson.Result) candidate.Candidate {
	displayName := item.Get("display_name").String()
	name := item.Get("name").String()
	category := item.Get("type").String()
	importance, _ := number(item.Get("importance"))

	lat, latOK := number(item.Get("lat"))
	lng, lngOK := number(item.Get("lon"))
	if !latOK || !lngOK {
		return candidate.WithoutCoordinates(displayName, name, category, importance)
	}
	return candidate.New(displayName, name, lat, lng, category, importance)
}

// number reads a JSON number or a numeric string. Nominatim sends lat/lon as strings.
func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
