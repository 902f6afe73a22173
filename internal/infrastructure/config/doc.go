// Package config provides 12-factor configuration for the storeadmin client.
//
// Configuration is loaded from environment variables with defaults that
// reproduce the plain client behaviour: no timeout, no retries, no rate
// limit, no circuit breaker.
//
// Configuration Sections:
//   - API: base URL override, host context, fixed origins, timeout
//   - Resilience: opt-in retries, rate limit, circuit breaker
//   - Store: persistent token store kind and location
//   - Logging: log level and output format
//
// Environment Variables:
//   - API_BASE_URL, APP_HOST, API_LOCAL_ORIGIN, API_PRODUCTION_ORIGIN, API_TIMEOUT
//   - API_RETRY_MAX, API_RETRY_WAIT_MIN, API_RETRY_WAIT_MAX
//   - API_RATE_LIMIT_RPS, API_BREAKER_ENABLED
//   - TOKEN_STORE, TOKEN_STORE_PATH
//   - LOG_LEVEL, LOG_DEV
package config
