package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/tripsearch/internal/domain/usage"
	"github.com/kailas-cloud/tripsearch/internal/domain/usage/budget"
)

// Service handles planner usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode, nothing tracked).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// GetReport builds a usage report for the given period. Periods are UTC calendar days and months.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now().UTC()
	var start, end time.Time
	var limit, used int64

	switch period {
	case domusage.PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
		if s.br != nil {
			limit = s.br.DailyLimit()
			used = s.br.DailyUsed()
		}
	default:
		period = domusage.PeriodMonth
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			limit = s.br.MonthlyLimit()
			used = s.br.MonthlyUsed()
		}
	}

	b := budget.New(limit, used, end.UnixMilli())
	return domusage.NewReport(period, start.UnixMilli(), end.UnixMilli(), b)
}
