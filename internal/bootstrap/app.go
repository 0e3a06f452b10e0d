package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/connectors/internal/connector"
	"github.com/cassiomorais/connectors/internal/connector/stripe"
	"github.com/cassiomorais/connectors/internal/infrastructure/config"
	"github.com/cassiomorais/connectors/internal/infrastructure/observability"
	"github.com/cassiomorais/connectors/internal/infrastructure/transport"
	"github.com/cassiomorais/connectors/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config         *config.Config
	Logger         zerolog.Logger
	Metrics        *observability.Metrics
	Registry       *connector.Registry
	Transport      *transport.HTTPTransport
	PaymentService *service.PaymentService
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout).
		With().Str("instance_id", cfg.InstanceID).Logger()
	log.Logger = logger
	logger.Info().Str("service", serviceName).Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)
	logger.Info().Msg("Metrics initialized")

	registry, err := connector.NewRegistry(stripe.New())
	if err != nil {
		return nil, fmt.Errorf("register connectors: %w", err)
	}
	for _, id := range registry.IDs() {
		if cfg.Settings().BaseURL(id) == "" {
			return nil, fmt.Errorf("connector %s: base_url is not configured", id)
		}
	}
	logger.Info().Strs("connectors", registry.IDs()).Msg("Connectors registered")

	credentials, err := config.NewStaticCredentials(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	httpTransport := transport.New(cfg.Transport.ToTransport(), metrics, logger)

	paymentService := service.NewPaymentService(
		registry,
		credentials,
		httpTransport,
		cfg.Settings(),
		metrics,
		logger,
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Registry:       registry,
		Transport:      httpTransport,
		PaymentService: paymentService,
	}, nil
}
