// Package main is the entry point for storeadmin, a command-line client for
// the furniture store admin REST API.
//
// It shares the API client used by the admin UI: the same base URL
// resolution, bearer token handling and response parsing.
//
// Architecture:
//
//	storeadmin → internal/app → internal/api/client → Store REST API
//	                          → internal/tokenstore (authToken)
//
// Configuration:
//   - Environment variables (API_BASE_URL, APP_HOST, TOKEN_STORE, ...)
//   - CLI flags for per-invocation output and headers
//
// Usage:
//
//	# List products as a table
//	storeadmin -table get /api/san-pham q=sofa page=2
//
//	# Save a token, then download a product image
//	storeadmin login eyJhbGciOi...
//	storeadmin download '{"duongDanHinhAnh":"/uploads/sofa.png"}' ./sofa.png
//
// Exit codes:
//   - 0: success
//   - 1: request, HTTP or configuration error
//   - 2: usage error
package main
