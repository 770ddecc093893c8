// Package httpapi exposes the container and the login flow over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xraph/depot"
	"github.com/xraph/depot/internal/login"
)

// Server serves container diagnostics and logins.
type Server struct {
	container depot.Container
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

// NewServer creates a Server. gatherer backs /metrics.
func NewServer(c depot.Container, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{container: c, gatherer: gatherer, logger: logger}
}

// Router returns the HTTP handler with all routes configured.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/services", s.handleListServices)
	r.Get("/services/*", s.handleInspectService)
	r.Post("/login", s.handleLogin)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.container.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	query := depot.ServiceQuery{
		Group:     r.URL.Query().Get("group"),
		Lifecycle: depot.Lifecycle(r.URL.Query().Get("lifecycle")),
	}

	infos := depot.Query(s.container, query)
	if infos == nil {
		infos = []depot.ServiceInfo{}
	}

	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleInspectService(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if !s.container.Has(name) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: depot.ErrServiceNotFound(name).Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.container.Inspect(name))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	scope := s.container.BeginScope()
	defer func() {
		if err := scope.End(); err != nil {
			s.logger.Warn("scope cleanup failed", zap.String("scope", scope.ID()), zap.Error(err))
		}
	}()

	vm, err := depot.GetScoped[*login.ViewModel](scope)
	if err != nil {
		status := http.StatusInternalServerError
		if depot.IsServiceNotFound(err) {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	result := vm.Login(r.Context(), req.Username, req.Password)
	if !result.Success {
		writeJSON(w, http.StatusUnauthorized, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
