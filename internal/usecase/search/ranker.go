package search

import (
	"sort"

	"github.com/kailas-cloud/tripsearch/internal/domain/geo"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
)

// Proximity tier parameters.
const (
	// NearRadiusKm is the boundary of the near tier.
	NearRadiusKm = 50.0
	// NearBoost lifts every near candidate above any far candidate.
	NearBoost = 2.0
	// DistancePenaltyPerKm orders candidates inside the near tier.
	DistancePenaltyPerKm = 1.0 / 100
)

// Score blends importance with distance. Candidates within NearRadiusKm get
// NearBoost minus a linear distance penalty; farther ones keep their importance.
func Score(importance, distanceKm float64) float64 {
	score := importance
	if distanceKm < NearRadiusKm {
		score += NearBoost
		score -= distanceKm * DistancePenaltyPerKm
	}
	return score
}

// Rank orders candidates for the caller and truncates to limit.
// Without a caller location the upstream order is kept and nothing is scored.
// Candidates without usable coordinates are scored by importance alone.
// Equal scores keep upstream order.
func Rank(cands []candidate.Candidate, caller *geo.Point, limit int) []candidate.Scored {
	out := make([]candidate.Scored, 0, len(cands))

	if caller == nil {
		for _, c := range cands {
			out = append(out, candidate.Unscored(c))
		}
		return truncate(out, limit)
	}

	for _, c := range cands {
		if !c.HasCoordinates() {
			out = append(out, candidate.WithScore(c, c.Importance()))
			continue
		}
		d := geo.DistanceKm(*caller, c.Point())
		out = append(out, candidate.WithDistance(c, d, Score(c.Importance(), d)))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreOrZero() > out[j].ScoreOrZero()
	})

	return truncate(out, limit)
}

func truncate(s []candidate.Scored, limit int) []candidate.Scored {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
