// Package v1 wires the HTTP surface of the costbook service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
    "log/slog"
    "net/http"
    "time"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"

    "costbook/internal/service/daysheet"
    "costbook/internal/service/payment"
    "costbook/internal/service/project"
)

// Server wires handlers and middleware using Chi.
// It composes read (repo) and write (writer) dependencies through services.
type Server struct {
    projectSvc project.Service
    paymentSvc payment.Service
    sheetSvc   daysheet.Service
    repo       Repository
    log        *slog.Logger
    rt         *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by basic request/response logging and panic recovery.
// zone is the reference time zone for bucketing dates into calendar days.
func New(repo Repository, pwriter payment.Writer, dwriter daysheet.Writer, prwriter project.Writer, logger *slog.Logger, zone *time.Location) *Server {
    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)

    s := &Server{
        projectSvc: project.New(repo, prwriter),
        paymentSvc: payment.New(repo, pwriter, zone),
        sheetSvc:   daysheet.New(repo, dwriter, zone),
        repo:       repo,
        rt:         r,
        log:        logger,
    }
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
    // Projects (v1)
    s.rt.With(s.validatePostProject()).Post("/v1/projects", s.postProject)
    s.rt.Get("/v1/projects", s.listProjects)
    s.rt.Get("/v1/projects/{id}", s.getProject)
    s.rt.Patch("/v1/projects/{id}/budget", s.updateProjectBudget)
    s.rt.Delete("/v1/projects/{id}", s.deleteProject)
    // Payments (v1)
    s.rt.With(s.validatePostPayment()).Post("/v1/payments", s.postPayment)
    s.rt.Patch("/v1/payments/{id}", s.updatePayment)
    s.rt.Delete("/v1/payments/{id}", s.deletePayment)
    s.rt.Get("/v1/projects/{id}/payments", s.listPayments)
    s.rt.Get("/v1/projects/{id}/payments/sum", s.sumPayments)
    // Day sheets (v1)
    s.rt.Get("/v1/projects/{id}/expenses/template", s.expenseTemplate)
    s.rt.With(s.validateSaveDay()).Post("/v1/projects/{id}/expenses/save", s.saveDay)
    s.rt.Get("/v1/projects/{id}/expenses", s.listExpenses)
    // Category catalogue (v1)
    s.rt.Get("/v1/categories", s.getCategories)
    // Health and metrics (unversioned)
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Handle("/metrics", metricsHandler())
}
