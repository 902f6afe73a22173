package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vothnha26/final-sub001/internal/api/client"
	"github.com/vothnha26/final-sub001/internal/infrastructure/config"
	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
	"github.com/vothnha26/final-sub001/internal/infrastructure/resilience"
	"github.com/vothnha26/final-sub001/internal/logging"
	"github.com/vothnha26/final-sub001/internal/tokenstore"
)

// App owns every long-lived dependency of a storeadmin run.
type App struct {
	Config  *config.Config
	Logger  *logging.Logger
	Store   tokenstore.Store
	Metrics *monitoring.Metrics
	// Registry holds every collector Metrics records into.
	Registry *prometheus.Registry
	Client   *client.Client
}

// New builds the application from cfg. Extra options are applied after the
// ones derived from configuration.
func New(cfg *config.Config, extra ...client.Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := tokenstore.Open(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	opts := append(clientOptions(cfg),
		client.WithTokenStore(store),
		client.WithLogger(logger.Named("api")),
		client.WithMetrics(metrics),
	)
	opts = append(opts, extra...)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Metrics:  metrics,
		Registry: registry,
		Client:   client.New(opts...),
	}

	logger.Debug("storeadmin ready",
		zap.String("base_url", a.Client.BaseURL()),
		zap.String("token_store", cfg.Store.Kind))
	return a, nil
}

func clientOptions(cfg *config.Config) []client.Option {
	opts := []client.Option{
		client.WithEnvironment(client.Environment{
			Override:         cfg.API.BaseURL,
			Host:             cfg.API.Host,
			LocalOrigin:      cfg.API.LocalOrigin,
			ProductionOrigin: cfg.API.ProductionOrigin,
		}),
		client.WithTimeout(cfg.API.Timeout),
		client.WithRateLimit(cfg.Resilience.RateLimitRPS),
	}

	if cfg.Resilience.RetryMax > 0 {
		opts = append(opts, client.WithRetry(client.RetryConfig{
			Max:     cfg.Resilience.RetryMax,
			MinWait: cfg.Resilience.RetryWaitMin,
			MaxWait: cfg.Resilience.RetryWaitMax,
		}))
	}
	if cfg.Resilience.BreakerEnabled {
		opts = append(opts, client.WithBreaker(resilience.Settings{}))
	}
	return opts
}

// Login persists token under the auth key and starts using it immediately.
func (a *App) Login(token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	if err := a.Store.Set(client.AuthTokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	a.Client.SetAuthToken(token)
	return nil
}

// Logout forgets the token in memory and in the store.
func (a *App) Logout() error {
	a.Client.ClearAuthToken()
	if err := a.Store.Delete(client.AuthTokenKey); err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Close releases the token store and flushes the logger.
func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.Store.Close()
}
