// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/energy-analytics/internal/adapters/repository"
	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session resolves the cookie value to a session, creating one if needed.
	Session(ctx context.Context, id string) repository.Session
	// Render produces the dashboard description for one rerun.
	Render(ctx context.Context, sess repository.Session) View
	// Upload replaces the session dataset with a parsed CSV.
	Upload(ctx context.Context, sess repository.Session, r io.Reader, source string) (repository.Session, error)
	// ClearUpload drops the session dataset.
	ClearUpload(ctx context.Context, sess repository.Session) (repository.Session, error)
}

// View mirrors the render description returned by the service.
type View = service.View

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	viewHandler      *ViewHandler
	uploadHandler    *UploadHandler
	dashboardHandler *dashboardHandler
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
	log            logger.Logger
}

// WithMaxUploadBytes sets the request body cap for uploads, clamped to
// service.MaxUploadLimit.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = min(n, service.MaxUploadLimit)
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxUploadBytes: 10 << 20, log: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	dash := newDashboardHandler(deps, cfg.maxUploadBytes, cfg.log)
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		viewHandler:      NewViewHandler(deps),
		uploadHandler:    NewUploadHandler(deps, dash, cfg.maxUploadBytes, cfg.log),
		dashboardHandler: dash,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/view", MetricsMiddleware(s.viewHandler.HandleGetView, "view"))
	mux.HandleFunc("/api/v1/upload", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/", MetricsMiddleware(s.dashboardHandler.HandleRoot, "root"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status; a value that cannot be
// encoded answers 500 with internal_error.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body, _ = json.Marshal(errorResponse{Code: codeInternalError, Message: "encode response: " + err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
