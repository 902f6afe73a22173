package monitoring

import (
	"time"
)

// Timer measures one backend call. A nil *Metrics makes every method a no-op
// so callers need not check whether metrics are enabled.
type Timer struct {
	start   time.Time
	metrics *Metrics
	method  string
}

// NewTimer starts timing a call
func NewTimer(metrics *Metrics, method string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		method:  method,
	}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Response records a completed HTTP exchange
func (t *Timer) Response(status, size int) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordRequest(t.method, status, t.Elapsed(), size)
}

// Failed records a transport failure
func (t *Timer) Failed() {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordTransportError(t.method, t.Elapsed())
}
