package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/metrics"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o"

// Planner is an itinerary completion provider using the OpenAI-compatible chat API.
type Planner struct {
	client *openai.Client
	model  string
	user   string
	logger *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	User    string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewPlanner creates an OpenAI-compatible chat completion provider.
func NewPlanner(cfg *Config) *Planner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Planner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		user:   cfg.User,
		logger: log,
	}
}

// Model returns the configured chat model.
func (p *Planner) Model() string { return p.model }

// Complete implements domain.Completer with JSON-object output and transport-level metrics.
func (p *Planner) Complete(ctx context.Context, prompt domain.Prompt) (domain.Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	req := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: p.user,
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.PlannerRequestsTotal.WithLabelValues(p.model, "error").Inc()
		metrics.PlannerErrorsTotal.WithLabelValues(p.model, "api_error").Inc()
		return domain.Completion{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.PlannerRequestsTotal.WithLabelValues(p.model, "error").Inc()
		metrics.PlannerErrorsTotal.WithLabelValues(p.model, "empty_response").Inc()
		return domain.Completion{}, fmt.Errorf("empty completion response: %w", domain.ErrPlannerProviderError)
	}

	metrics.PlannerRequestsTotal.WithLabelValues(p.model, "success").Inc()
	metrics.PlannerRequestDuration.WithLabelValues(p.model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.PlannerTokensTotal.WithLabelValues(p.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.PlannerTokensTotal.WithLabelValues(p.model, "completion").Add(float64(usage.CompletionTokens))
	}

	if fr := resp.Choices[0].FinishReason; fr == openai.FinishReasonLength {
		p.logger.Warn("Planner completion truncated", zap.String("model", p.model))
	}

	return domain.Completion{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Planner) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrPlannerProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrPlannerProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("planner API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("planner API error %d: %w", reqErr.HTTPStatusCode, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("planner API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("planner request failed: %w", wrap)
}

// extractDetail reads the "detail" field some compatible providers return instead of "error".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
