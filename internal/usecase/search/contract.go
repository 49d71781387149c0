package search

import (
	"context"

	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/request"
)

// Fetcher retrieves raw candidates from the geocoding provider.
type Fetcher interface {
	Fetch(ctx context.Context, plan request.FetchPlan, query string) ([]candidate.Candidate, error)
}
