package controller

import (
	"time"

	"github.com/cassiomorais/connectors/internal/infrastructure/config"
	"github.com/cassiomorais/connectors/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/connectors/internal/middleware"
	"github.com/cassiomorais/connectors/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	PaymentService    *service.PaymentService
	Metrics           *observability.Metrics
	CORSConfig        config.CORSConfig
	JWTSecret         string
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

func NewRouter(deps RouterDeps) *chi.Mux {
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", customMW.MerchantIDHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.PaymentService)
	paymentH := NewPaymentController(deps.PaymentService)
	refundH := NewRefundController(deps.PaymentService)
	connectorH := NewConnectorController(deps.PaymentService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/connectors", connectorH.List)

		r.Group(func(r chi.Router) {
			r.Use(customMW.RequireMerchant(deps.JWTSecret))
			r.Use(customMW.RateLimit(deps.RequestsPerMinute))

			// Payments
			r.Post("/payments", paymentH.Authorize)
			r.Get("/payments/{connector}/{transaction_id}", paymentH.Sync)
			r.Post("/payments/{connector}/{transaction_id}/capture", paymentH.Capture)
			r.Post("/payments/{connector}/{transaction_id}/void", paymentH.Void)

			// Refunds
			r.Post("/refunds", refundH.Create)
			r.Get("/refunds/{connector}/{refund_id}", refundH.Sync)
		})
	})

	return r
}
