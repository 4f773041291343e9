package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/api/handler"
	apimw "github.com/shiftbook/mailroom/internal/api/middleware"
	"github.com/shiftbook/mailroom/internal/gateway"
	"github.com/shiftbook/mailroom/internal/repository"
	"github.com/shiftbook/mailroom/internal/service"
	"github.com/shiftbook/mailroom/internal/worker"
)

// Deps bundles everything the router needs. Guards are per-endpoint: the
// checkout guard fails open, the log guard fails closed.
type Deps struct {
	Emails        *service.EmailService
	Checkout      *service.CheckoutService
	AuditLogs     repository.AuditLogRepository
	Drainer       *worker.Drainer
	CheckoutGuard *gateway.Guard
	LogGuard      *gateway.Guard
	Registry      prometheus.Gatherer
	Logger        *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(d.Logger))

	// --- handler instances ---
	eh := handler.NewEmailHandler(d.Emails, d.Logger)
	qh := handler.NewQueueHandler(d.Emails, d.Drainer, d.Logger)
	ch := handler.NewCheckoutHandler(d.Checkout, d.Logger)
	lh := handler.NewLogHandler(d.AuditLogs, d.Logger)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Email queue (producer + operator surface)
		r.Post("/emails", eh.Enqueue)
		r.Get("/emails", eh.List)
		r.Get("/emails/{id}", eh.GetByID)
		r.Post("/emails/{id}/requeue", eh.Requeue)

		// Queue state and on-demand drain
		r.Get("/queue", qh.Snapshot)
		r.Post("/queue/drain", qh.Drain)

		// Guarded endpoints — each with its own limiter policy.
		r.With(apimw.RateLimit(d.CheckoutGuard)).
			Post("/checkout/sessions", ch.CreateSession)
		r.With(apimw.RateLimit(d.LogGuard)).
			Post("/logs", lh.Insert)
	})

	return r
}
