// Package api exposes the HTTP surface: report CRUD, auth, the WebSocket
// mount point and the metrics endpoint.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/utec-cloud/incident-hub/internal/auth"
	"github.com/utec-cloud/incident-hub/internal/errs"
	"github.com/utec-cloud/incident-hub/internal/reports"
)

// ReportService is the intake pipeline plus the admin CRUD surface.
type ReportService interface {
	Submit(ctx context.Context, sub reports.Submission) (reports.Report, error)
	List(ctx context.Context, tenantID string) ([]reports.Report, error)
	Get(ctx context.Context, tenantID, id string) (reports.Report, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// AuthService handles account registration and login.
type AuthService interface {
	RegisterAdmin(ctx context.Context, email, password, nombre string) (auth.Account, error)
	LoginAdmin(ctx context.Context, email, password string) (auth.Account, error)
	LoginUsuario(ctx context.Context, email, password string) (auth.Account, error)
}

// NewServer builds the full HTTP handler. wsHandler serves the observer
// socket; metricsHandler serves the Prometheus scrape endpoint.
func NewServer(reportSvc ReportService, authSvc AuthService, wsHandler http.HandlerFunc, metricsHandler http.Handler) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Incident Hub API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	registerReportHandlers(api, reportSvc)
	registerAuthHandlers(api, authSvc)

	if wsHandler != nil {
		router.Get("/ws", wsHandler)
	}
	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return router
}

// mapErr translates service errors into stable HTTP statuses.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var typed *errs.Error
	if errors.As(err, &typed) {
		switch typed.Code {
		case errs.CodeValidation:
			return huma.Error400BadRequest(typed.Message)
		case errs.CodeNotFound:
			return huma.Error404NotFound(typed.Message)
		case errs.CodeUnauthorized:
			return huma.Error401Unauthorized(typed.Message)
		case errs.CodeConflict:
			return huma.Error409Conflict(typed.Message)
		case errs.CodeStorage:
			return huma.Error500InternalServerError(typed.Message)
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
