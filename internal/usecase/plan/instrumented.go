package plan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/metrics"
)

// InstrumentedCompleter wraps a Completer with budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedCompleter struct {
	inner  domain.Completer
	model  string
	budget BudgetChecker
	logger *zap.Logger
}

// NewInstrumentedCompleter wraps a completer with budget and observability. budget may be nil.
func NewInstrumentedCompleter(
	inner domain.Completer, model string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, model: model, budget: budget, logger: logger}
}

// Complete checks the budget, delegates to the inner completer and records usage.
func (c *InstrumentedCompleter) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	if c.budget != nil {
		if err := c.budget.Check(ctx); err != nil {
			c.logger.Error("Planner budget exceeded",
				zap.String("model", c.model),
				zap.Error(err),
			)
			return domain.Completion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()

	res, err := c.inner.Complete(ctx, p)

	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Planner completion failed",
			zap.String("model", c.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	if c.budget != nil && res.TotalTokens > 0 {
		c.budget.Record(int64(res.TotalTokens))
		remaining := metrics.PlannerBudgetTokensRemaining
		remaining.WithLabelValues("daily").Set(float64(c.budget.RemainingDaily()))
		remaining.WithLabelValues("monthly").Set(float64(c.budget.RemainingMonthly()))
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	c.logger.Debug("Planner completion finished",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)

	return res, nil
}
