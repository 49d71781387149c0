package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PlannerChecker checks itinerary provider availability.
type PlannerChecker interface {
	HealthCheck(ctx context.Context) error
}
