// Package chi is the HTTP front door: routing, middleware and the response envelope.
package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/logger"
	"github.com/kailas-cloud/dbgate/internal/metrics"
	"github.com/kailas-cloud/dbgate/internal/proxy"
	"github.com/kailas-cloud/dbgate/internal/version"
)

// maxBodyBytes bounds request bodies read by the embed and proxy handlers.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

// Fixed holds the predicates served by the lookup endpoints.
type Fixed struct {
	Name string
	ID   int64
}

// Server implements the gateway HTTP handlers.
type Server struct {
	lookup        Lookup
	search        Searcher
	proxy         Forwarder
	health        HealthChecker
	fixed         Fixed
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	lookup Lookup,
	search Searcher,
	forwarder Forwarder,
	health HealthChecker,
	fixed Fixed,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		lookup: lookup,
		search: search,
		proxy:  forwarder,
		health: health,
		fixed:  fixed,
		logger: log,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownService, http.StatusBadRequest),
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrUpstreamBadResponse, http.StatusBadGateway),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusInternalServerError),
		sentinelHandler(domain.ErrStore, http.StatusInternalServerError),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
	}
	return s
}

// Routes returns the router with all gateway endpoints and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(jsonRecoverer(s.logger))
	r.Use(corsMiddleware)
	r.Use(metrics.Middleware())

	r.Get("/health", s.Health)
	r.Get("/data", s.Data)
	r.Get("/mock", s.Mock)
	r.Post("/embed", s.Embed)
	r.Post("/embed/*", s.Embed)
	r.Get("/api/*", s.Proxy)
	r.Post("/api/*", s.Proxy)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Health handles GET /health. A failing dependency degrades the status text
// but keeps 200.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeData(w, r, healthResponse{
		Status:    string(report.Status),
		Timestamp: report.Timestamp.Format(time.RFC3339),
		Version:   version.Version,
		Checks:    checks,
	}, nil)
}

// Data handles GET /data: the listing with the configured fixed name.
func (s *Server) Data(w http.ResponseWriter, r *http.Request) {
	l, err := s.lookup.FetchByName(r.Context(), s.fixed.Name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, r, listingToResponse(l), nil)
}

// Mock handles GET /mock: the listing with the configured fixed id.
func (s *Server) Mock(w http.ResponseWriter, r *http.Request) {
	l, err := s.lookup.FetchByID(r.Context(), s.fixed.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, r, listingToResponse(l), nil)
}

// Embed handles POST /embed/*. The raw body is the query text; ?embed=true
// echoes the query vector.
func (s *Server) Embed(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.search.Search(ctx, string(body), 0, 0)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if res.Projection == nil {
		s.handleDomainError(w, r, fmt.Errorf("similarity search: %w", domain.ErrNotFound))
		return
	}

	var vector []float32
	if echo, _ := strconv.ParseBool(r.URL.Query().Get("embed")); echo {
		vector = res.Vector
	}
	writeData(w, r, res.Projection, vector)
}

// Proxy handles GET|POST /api/*?service=NAME.
func (s *Server) Proxy(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Method == http.MethodPost {
		var err error
		if body, err = readBody(w, r); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	payload, err := s.proxy.Forward(r.Context(), &proxy.Request{
		Method:  r.Method,
		Service: r.URL.Query().Get("service"),
		Path:    chi.URLParam(r, "*"),
		Header:  r.Header,
		Body:    body,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, r, payload, nil)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Calls > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, r, status, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, r, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

// requestLogger prefers the per-request logger carrying request_id.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l := logger.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}
