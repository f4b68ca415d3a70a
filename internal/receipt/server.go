package receipt

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles HTTP requests for sessions
type Server struct {
	service    *Service
	basicAuth  BasicAuth
	mux        *http.ServeMux
	metrics    http.Handler
	handler    http.Handler
	httpServer *http.Server
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) enabled() bool {
	return b.Username != "" || b.Password != ""
}

// NewServer creates a new Server with default mux, exposing the default
// Prometheus registry on /metrics
func NewServer(service *Service, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, basicAuth, http.NewServeMux(), promhttp.Handler())
}

// NewServerWithMux creates a new Server with a custom mux and metrics handler
// for testing
func NewServerWithMux(service *Service, basicAuth BasicAuth, mux *http.ServeMux, metrics http.Handler) *Server {
	s := &Server{
		service:   service,
		basicAuth: basicAuth,
		mux:       mux,
		metrics:   metrics,
	}
	s.registerRoutes()
	s.handler = s.logRequests(s.corsMiddleware(s.mux))
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if !s.basicAuth.enabled() {
		return true
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.basicAuth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.basicAuth.Password)) == 1
	return userOK && passOK
}

// corsMiddleware adds CORS headers to responses and answers preflight requests
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Receipt Splitter"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status before writing it
func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request with its status and duration
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			slog.Error("HTTP request failed", attrs...)
		case rec.status >= http.StatusBadRequest:
			slog.Warn("HTTP request rejected", attrs...)
		default:
			slog.Debug("HTTP request", attrs...)
		}
	})
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/parse", s.requireAuth(s.handleParse))

	s.mux.HandleFunc("GET /api/sessions", s.requireAuth(s.handleListSessions))
	s.mux.HandleFunc("POST /api/sessions", s.requireAuth(s.handleCreateSession))
	s.mux.HandleFunc("GET /api/sessions/{id}", s.requireAuth(s.handleGetSession))
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.requireAuth(s.handleDeleteSession))

	s.mux.HandleFunc("POST /api/sessions/{id}/participants", s.requireAuth(s.handleAddParticipant))
	s.mux.HandleFunc("DELETE /api/sessions/{id}/participants/{name}", s.requireAuth(s.handleRemoveParticipant))

	s.mux.HandleFunc("POST /api/sessions/{id}/receipt", s.requireAuth(s.handleUploadReceipt))
	s.mux.HandleFunc("GET /api/sessions/{id}/receipt/image", s.requireAuth(s.handleGetReceiptImage))
	s.mux.HandleFunc("POST /api/sessions/{id}/text", s.requireAuth(s.handleReceiptText))

	s.mux.HandleFunc("POST /api/sessions/{id}/items/{itemID}/toggle", s.requireAuth(s.handleToggleAssignment))
	s.mux.HandleFunc("POST /api/sessions/{id}/step", s.requireAuth(s.handleGoToStep))
	s.mux.HandleFunc("POST /api/sessions/{id}/reset", s.requireAuth(s.handleReset))
	s.mux.HandleFunc("DELETE /api/sessions/{id}/error", s.requireAuth(s.handleClearError))

	s.mux.HandleFunc("GET /api/sessions/{id}/results", s.requireAuth(s.handleResults))
	s.mux.HandleFunc("GET /api/sessions/{id}/results.csv", s.requireAuth(s.handleResultsCSV))

	s.mux.HandleFunc("GET /metrics", s.requireAuth(s.metrics.ServeHTTP))
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	s.httpServer.Addr = addr
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a started server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
