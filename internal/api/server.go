// Package api implements the HTTP trigger surface for the notification
// service. The ERP web application and operators call these endpoints; the
// service itself has no user-facing UI. Handlers are methods on *Server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meridianerp/notify-backend/internal/db"
	"github.com/meridianerp/notify-backend/internal/notify"
)

// Notifier is the slice of the dispatcher the HTTP layer calls. The concrete
// implementation is *notify.Dispatcher; tests inject a stub.
type Notifier interface {
	SendLowStockAlert(ctx context.Context, products []db.Product) notify.Result
	SendPurchaseOrderConfirmation(ctx context.Context, order db.Order, vendor db.Vendor, items []db.OrderItem) notify.Result
	SendDailySummary(ctx context.Context) (notify.Result, error)
}

// Exporter converts HTML to PDF bytes, nil on failure. Implemented by
// *pdf.Exporter.
type Exporter interface {
	ToPDF(htmlContent string) []byte
}

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles single-query reads (orders, vendors, low-stock scans).
	q db.Querier

	notifier Notifier
	exporter Exporter

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	notifier Notifier,
	exporter Exporter,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:        q,
		notifier: notifier,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			r.Post("/low-stock", s.handleLowStockAlert)
			r.Post("/orders/{orderID}", s.handleOrderConfirmation)
			r.Post("/daily-summary", s.handleDailySummary)
		})

		r.Post("/exports/pdf", s.handleExportPDF)
	})

	return r
}
