/*
Package monitoring collects Prometheus metrics for backend API calls.

Metrics are optional: the API client records nothing unless a *Metrics is
supplied. Each *Metrics registers on its own registry, so tests and
multiple clients never collide on the default registry. Snapshot and
WriteText read the same registry back for one-shot CLI output.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	api := client.New(client.WithMetrics(metrics))

	http.Handle("/metrics", monitoring.Handler(reg))

# Metrics

  - storeadmin_api_requests_total{method,status}
  - storeadmin_api_request_duration_seconds{method}
  - storeadmin_api_response_size_bytes{method}
  - storeadmin_api_transport_errors_total{method}
  - storeadmin_api_breaker_state
*/
package monitoring
