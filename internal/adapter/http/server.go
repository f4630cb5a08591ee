package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/zip-census/internal/census"
	"github.com/couchcryptid/zip-census/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the ZIP lookup API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	classifier *census.Classifier
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/zipcodes, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, classifier *census.Classifier, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/zipcodes/{zip}", s.handleClassify)
	mux.HandleFunc("GET /v1/zipcodes/{zip}/{field}", s.handleField)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	zip := r.PathValue("zip")
	result, err := s.classifier.Classify(zip)
	s.observe("classify", zip, err)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	zip := r.PathValue("zip")
	field := r.PathValue("field")

	var lookup func(string) (string, error)
	switch field {
	case "state":
		lookup = s.classifier.State
	case "division":
		lookup = s.classifier.Division
	case "region":
		lookup = s.classifier.Region
	case "validate":
		_, err := census.ValidateZipCode(zip)
		s.observe(field, zip, err)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"zip_code": zip, "valid": true})
		return
	default:
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "unknown field " + field})
		return
	}

	value, err := lookup(zip)
	s.observe(field, zip, err)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"zip_code": zip, field: value})
}

func (s *Server) observe(operation, zip string, err error) {
	kind := census.KindOf(err)
	s.metrics.ObserveLookup(operation, kind.String())
	if err != nil {
		s.logger.Debug("zip lookup failed", "operation", operation, "zip_code", zip, "kind", kind.String(), "error", err)
	}
}

// writeLookupError maps classifier failures to 400 (bad input) or 404 (no match).
func writeLookupError(w http.ResponseWriter, err error) {
	kind := census.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case census.KindType, census.KindFormat:
		status = http.StatusBadRequest
	case census.KindLookup:
		status = http.StatusNotFound
	}
	sharedobs.WriteJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  kind.String(),
	})
}
