package monitoring

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const (
	requestsTotalName   = "storeadmin_api_requests_total"
	requestDurationName = "storeadmin_api_request_duration_seconds"
)

// StatusTransportError labels calls that never produced an HTTP response.
const StatusTransportError = "error"

// Metrics holds the Prometheus collectors for backend API calls
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec
	BreakerState    prometheus.Gauge

	registry *prometheus.Registry
}

// Snapshot holds totals read back from a registry for printing
type Snapshot struct {
	TotalRequests   int64
	TotalFailures   int64 // non-2xx responses
	TransportErrors int64
	TotalDuration   time.Duration
	ByStatus        map[string]int64
}

// AverageDuration returns the mean call duration
func (s Snapshot) AverageDuration() time.Duration {
	if s.TotalRequests == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalRequests)
}

// Statuses returns the status labels seen so far, sorted
func (s Snapshot) Statuses() []string {
	keys := make([]string, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewMetrics registers the collectors on reg. A nil reg uses a private
// registry so several clients can coexist in one process.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: requestsTotalName,
				Help: "Total number of backend API requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    requestDurationName,
				Help:    "Backend API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storeadmin_api_response_size_bytes",
				Help:    "Backend API response body size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storeadmin_api_transport_errors_total",
				Help: "Backend API calls that failed before a response arrived",
			},
			[]string{"method"},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "storeadmin_api_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),
		registry: reg,
	}
}

// RecordRequest records a call that produced an HTTP response
func (m *Metrics) RecordRequest(method string, status int, duration time.Duration, respSize int) {
	code := strconv.Itoa(status)
	m.RequestsTotal.WithLabelValues(method, code).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method).Observe(float64(respSize))
}

// RecordTransportError records a call that failed without a response
func (m *Metrics) RecordTransportError(method string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, StatusTransportError).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	m.TransportErrors.WithLabelValues(method).Inc()
}

// SetBreakerState publishes the breaker state as a number
func (m *Metrics) SetBreakerState(state int) {
	m.BreakerState.Set(float64(state))
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot gathers the registry and totals the request metrics. A gather
// failure yields an empty snapshot.
func (m *Metrics) Snapshot() Snapshot {
	s, err := SnapshotFrom(m.registry)
	if err != nil {
		return Snapshot{ByStatus: map[string]int64{}}
	}
	return s
}

// SnapshotFrom totals the request counters and duration histogram found in g
func SnapshotFrom(g prometheus.Gatherer) (Snapshot, error) {
	s := Snapshot{ByStatus: map[string]int64{}}
	families, err := g.Gather()
	if err != nil {
		return s, fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		switch mf.GetName() {
		case requestsTotalName:
			for _, metric := range mf.GetMetric() {
				n := int64(metric.GetCounter().GetValue())
				status := labelValue(metric, "status")
				s.TotalRequests += n
				s.ByStatus[status] += n
				if status == StatusTransportError {
					s.TransportErrors += n
				} else if code, _ := strconv.Atoi(status); code < 200 || code > 299 {
					s.TotalFailures += n
				}
			}
		case requestDurationName:
			for _, metric := range mf.GetMetric() {
				seconds := metric.GetHistogram().GetSampleSum()
				s.TotalDuration += time.Duration(math.Round(seconds * float64(time.Second)))
			}
		}
	}
	return s, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// WriteText writes every family in g in the Prometheus text format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Handler exposes a registry in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
