package nominatim

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/request"
	"github.com/kailas-cloud/tripsearch/internal/logger"
	"github.com/kailas-cloud/tripsearch/internal/metrics"
)

// Defaults for the public OpenStreetMap instance.
const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "AITravel-App/1.0"
	DefaultTimeout   = 10 * time.Second

	searchPath      = "/search"
	maxResponseSize = 4 << 20
)

// Client queries a Nominatim-compatible geocoding API.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// Config holds the geocoder client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// ForceIPv4 dials over tcp4 only. Some hosting networks advertise broken IPv6 routes.
	ForceIPv4 bool
}

// NewClient creates a geocoder client. Zero-valued fields fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout, KeepAlive: 30 * time.Second}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = dialer.DialContext
	if cfg.ForceIPv4 {
		base.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		}
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
	}
}

// Fetch performs exactly one search call. It never retries.
func (c *Client) Fetch(ctx context.Context, plan request.FetchPlan, query string) ([]candidate.Candidate, error) {
	endpoint, err := c.searchURL(plan, query)
	if err != nil {
		return nil, fmt.Errorf("build geocoder url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GeocoderRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocoderRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.GeocoderRequestsTotal.WithLabelValues("http_" + strconv.Itoa(resp.StatusCode)).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, domain.NewUpstreamStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.GeocoderRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrUpstreamUnavailable, err)
	}
	metrics.GeocoderRequestsTotal.WithLabelValues("ok").Inc()

	cands, ok := parseCandidates(body)
	if !ok {
		metrics.GeocoderMalformedTotal.Inc()
		logger.FromContext(ctx).Warn("geocoder returned non-array payload",
			zap.String("query", query),
			zap.Int("bytes", len(body)),
		)
	}
	return cands, nil
}

func (c *Client) searchURL(plan request.FetchPlan, query string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath(searchPath)

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(plan.EffectiveFetchCount))
	q.Set("addressdetails", "1")
	if b := plan.SpatialBias; b != nil {
		q.Set("viewbox", fmt.Sprintf("%s,%s,%s,%s",
			formatCoord(b.Left), formatCoord(b.Top), formatCoord(b.Right), formatCoord(b.Bottom)))
		q.Set("bounded", "0")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
