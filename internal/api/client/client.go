package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
	"github.com/vothnha26/final-sub001/internal/infrastructure/resilience"
	"github.com/vothnha26/final-sub001/internal/logging"
)

// Client talks to the store backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	resty   *resty.Client
	store   TokenReader
	log     *logging.Logger
	metrics *monitoring.Metrics
	limiter *rate.Limiter
	breaker *resilience.Breaker

	mu    sync.RWMutex
	token string
}

// New resolves the base URL once and builds the transport stack:
// resty on top of a retryablehttp client with a cookie jar.
func New(opts ...Option) *Client {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = s.retry.Max
	retryClient.RetryWaitMin = s.retry.MinWait
	retryClient.RetryWaitMax = s.retry.MaxWait
	retryClient.Logger = s.logger.Leveled()
	// Hand back the last response or transport error as-is once retries are
	// exhausted; a 5xx must still reach the caller as a response.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if s.transport != nil {
		retryClient.HTTPClient.Transport = s.transport
	}
	// Redirects are followed by the outer client so the jar sees them.
	retryClient.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	hc := retryClient.StandardClient()
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		hc.Jar = jar
	}

	r := resty.NewWithClient(hc).
		SetLogger(s.logger.Resty()).
		SetHeader("User-Agent", s.userAgent)
	if s.timeout > 0 {
		r.SetTimeout(s.timeout)
	}

	c := &Client{
		baseURL: ResolveBaseURL(s.env),
		resty:   r,
		store:   s.store,
		log:     s.logger,
		metrics: s.metrics,
	}

	if s.rps > 0 {
		burst := int(s.rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(s.rps), burst)
	}

	if s.breaker != nil {
		bs := *s.breaker
		observe := bs.OnStateChange
		bs.OnStateChange = func(name string, from, to resilience.State) {
			c.log.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if c.metrics != nil {
				c.metrics.SetBreakerState(int(to))
			}
			if observe != nil {
				observe(name, from, to)
			}
		}
		c.breaker = resilience.New("backend-api", bs)
	}

	c.log.Debug("api client ready", zap.String("base_url", c.baseURL))
	return c
}

// BaseURL returns the origin resolved at construction.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildURL joins p and q onto the client's base URL. See BuildURL.
func (c *Client) BuildURL(p Path, q Query) string {
	return BuildURL(c.baseURL, p, q)
}

// BreakerState reports the breaker state; closed when no breaker is set.
func (c *Client) BreakerState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}

// Cookies returns the session cookies held for the base URL.
func (c *Client) Cookies() []*http.Cookie {
	jar := c.resty.GetClient().Jar
	if jar == nil {
		return nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return jar.Cookies(u)
}
