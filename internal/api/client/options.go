package client

import (
	"net/http"
	"time"

	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
	"github.com/vothnha26/final-sub001/internal/infrastructure/resilience"
	"github.com/vothnha26/final-sub001/internal/logging"
)

// RetryConfig defines retry behavior. Max of zero sends each request once.
type RetryConfig struct {
	Max     int
	MinWait time.Duration
	MaxWait time.Duration
}

type settings struct {
	env       Environment
	store     TokenReader
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	retry     RetryConfig
	timeout   time.Duration
	rps       float64
	breaker   *resilience.Settings
	transport http.RoundTripper
	userAgent string
}

func defaultSettings() settings {
	return settings{
		logger: logging.NewNop(),
		retry: RetryConfig{
			MinWait: 1 * time.Second,
			MaxWait: 30 * time.Second,
		},
		userAgent: "storeadmin/1.0",
	}
}

// Option configures a Client.
type Option func(*settings)

// WithEnvironment sets the inputs of base URL resolution.
func WithEnvironment(env Environment) Option {
	return func(s *settings) { s.env = env }
}

// WithBaseURL is shorthand for an Environment with only Override set.
func WithBaseURL(base string) Option {
	return func(s *settings) { s.env.Override = base }
}

// WithTokenStore sets the persistent fallback source of the bearer token.
func WithTokenStore(store TokenReader) Option {
	return func(s *settings) { s.store = store }
}

// WithLogger enables debug logging of requests.
func WithLogger(logger *logging.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithRetry enables retries with exponential backoff on transport errors
// and 5xx responses.
func WithRetry(cfg RetryConfig) Option {
	return func(s *settings) { s.retry = cfg }
}

// WithTimeout bounds every request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithRateLimit caps outgoing requests per second. Zero means unlimited.
func WithRateLimit(rps float64) Option {
	return func(s *settings) { s.rps = rps }
}

// WithBreaker guards the backend with a circuit breaker.
func WithBreaker(cfg resilience.Settings) Option {
	return func(s *settings) { s.breaker = &cfg }
}

// WithTransport replaces the network transport beneath the retry layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) { s.transport = rt }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}
