package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tripsearch/internal/domain"
	"github.com/kailas-cloud/tripsearch/internal/domain/geo"
	"github.com/kailas-cloud/tripsearch/internal/domain/itinerary"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/candidate"
	"github.com/kailas-cloud/tripsearch/internal/domain/search/request"
	domtrip "github.com/kailas-cloud/tripsearch/internal/domain/trip"
	domusage "github.com/kailas-cloud/tripsearch/internal/domain/usage"
	"github.com/kailas-cloud/tripsearch/internal/logger"
	healthuc "github.com/kailas-cloud/tripsearch/internal/usecase/health"
	planuc "github.com/kailas-cloud/tripsearch/internal/usecase/plan"
	searchuc "github.com/kailas-cloud/tripsearch/internal/usecase/search"
	tripuc "github.com/kailas-cloud/tripsearch/internal/usecase/trip"
	usageuc "github.com/kailas-cloud/tripsearch/internal/usecase/usage"
)

// msgQueryRequired is the fixed 400 body for a geocode call without q.
const msgQueryRequired = "Query parameter required"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the tripsearch API.
type Server struct {
	search        *searchuc.Service
	planner       *planuc.Service
	trips         *tripuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	planner *planuc.Service,
	trips *tripuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		planner: planner,
		trips:   trips,
		usage:   usage,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusInternalServerError),
		sentinelHandler(domain.ErrUpstreamError, http.StatusInternalServerError),
		sentinelHandler(domain.ErrPlannerNotConfigured, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrPlannerQuotaExceeded, http.StatusPaymentRequired),
		sentinelHandler(domain.ErrPlannerProviderError, http.StatusBadGateway),
	}
	return s
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/geocode", s.Geocode)
	r.Post("/api/plan", s.Plan)
	r.Route("/api/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.SaveTrip)
		r.Get("/{id}", s.GetTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})
	r.Get("/api/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Geocode handles GET /api/geocode.
func (s *Server) Geocode(w http.ResponseWriter, r *http.Request) {
	params := bindGeocodeParams(r)

	var q string
	if params.Q != nil {
		q = *params.Q
	}
	req, err := request.Normalize(q, params.Limit, params.Lat, params.Lng)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	ranked, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]GeocodeResult, len(ranked))
	for i, c := range ranked {
		items[i] = geocodeResultFromScored(c)
	}
	writeJSON(w, http.StatusOK, items)
}

// bindGeocodeParams reads query parameters. Values that fail to parse are
// treated as absent, so a bad limit falls back to the default and a bad
// coordinate disables the location bias.
func bindGeocodeParams(r *http.Request) GeocodeParams {
	var p GeocodeParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", query, &p.Q); err != nil {
		p.Q = nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &p.Limit); err != nil {
		p.Limit = nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "lat", query, &p.Lat); err != nil {
		p.Lat = nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "lng", query, &p.Lng); err != nil {
		p.Lng = nil
	}
	return p
}

// Plan handles POST /api/plan.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	var body PlanRequest
	if !decodeBody(w, r, &body) {
		return
	}

	var user *geo.Point
	if body.UserLocation != nil {
		user = &geo.Point{Lat: body.UserLocation.Lat, Lng: body.UserLocation.Lng}
	}

	req, err := itinerary.NewPlanRequest(body.Locations, body.Days, user, body.UserTheme)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	it, err := s.planner.Plan(ctx, req)
	setPlannerHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}

// SaveTrip handles POST /api/trips.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	var body SaveTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	t, err := s.trips.Save(r.Context(), body.Title, body.Theme, body.Locations, body.Itinerary)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/trips/"+t.ID())
	writeJSON(w, http.StatusCreated, tripToResponse(&t))
}

// ListTrips handles GET /api/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]TripResponse, len(trips))
	for i := range trips {
		items[i] = tripToResponse(&trips[i])
	}
	writeJSON(w, http.StatusOK, TripListResponse{Items: items})
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := s.trips.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(&t))
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUsage handles GET /api/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid period")
		return
	}
	var p string
	if raw != nil {
		p = *raw
	}
	period, err := domusage.ParsePeriod(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	b := report.Budget()

	resp := UsageResponse{
		Period:          string(report.Period()),
		PeriodStartAt:   time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEndAt:     time.UnixMilli(report.PeriodEnd()).UTC(),
		TokensUsed:      b.TokensUsed(),
		TokensLimit:     b.TokensLimit(),
		TokensRemaining: b.TokensRemaining(),
		IsExhausted:     b.IsExhausted(),
	}
	if b.ResetsAt() > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt()).UTC()
		resp.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setPlannerHeaders(w http.ResponseWriter, usage *domain.PlannerUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Planner-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUpstreamUnavailable,
		domain.ErrUpstreamError,
		domain.ErrPlannerNotConfigured,
		domain.ErrPlannerQuotaExceeded,
		domain.ErrPlannerProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

// invalidRequestHandler answers 400 with the validation detail, which is
// user-facing text, minus any wrapping context.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidRequest.Error()); i >= 0 {
		msg = msg[i:]
	}
	writeError(w, http.StatusBadRequest, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func geocodeResultFromScored(c candidate.Scored) GeocodeResult {
	res := GeocodeResult{
		Name:       c.ShortName(),
		FullName:   c.DisplayName(),
		Type:       c.Category(),
		Importance: c.Importance(),
		Distance:   c.DistanceKm(),
		Score:      c.Score(),
	}
	if c.HasCoordinates() {
		lat, lng := c.Lat(), c.Lng()
		res.Lat = &lat
		res.Lng = &lng
	}
	return res
}

func tripToResponse(t *domtrip.Trip) TripResponse {
	return TripResponse{
		ID:        t.ID(),
		CreatedAt: t.CreatedAt(),
		Title:     t.Title(),
		Theme:     t.Theme(),
		Locations: t.Locations(),
		Itinerary: t.Itinerary(),
	}
}
