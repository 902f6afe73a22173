// Package client is the HTTP client every admin screen uses to reach the
// furniture-store backend.
//
// It centralises four concerns:
//   - base URL resolution (ResolveBaseURL): an override, else a local origin
//     for localhost/127.0.0.1/*.local hosts, else the production origin
//   - URL building (BuildURL) from a Path and an ordered Query; this never
//     panics and returns "" for an empty path, so it is safe for image src
//     attributes
//   - bearer authentication from an in-memory token with a persistent
//     "authToken" fallback (SetAuthToken, ClearAuthToken, AuthHeader)
//   - request execution with content negotiation and error normalisation
//     (Do, Get, Post, Put, Patch, Delete, Download)
//
// Responses are parsed into a Payload, either JSON or Text. A body declared
// as JSON that fails to parse comes back as Text rather than an error. Any
// non-2xx status is returned as *HTTPError carrying the status and the
// parsed body:
//
//	api := client.New(client.WithEnvironment(client.Environment{Host: "localhost"}))
//	api.SetAuthToken(token)
//
//	payload, err := api.Get(ctx, client.Literal("/api/products"), client.Options{
//		Query: client.Q("q", "sofa", "page", 2),
//	})
//	var httpErr *client.HTTPError
//	if errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized {
//		// send the user back to login
//	}
//
// Built on go-resty/resty over a hashicorp/go-retryablehttp transport. By
// default each call is sent once with no timeout, no rate limit and no
// circuit breaker; a hung backend blocks the call until ctx is done. The
// options WithTimeout, WithRetry, WithRateLimit and WithBreaker opt in to
// each of those.
//
// Every Client owns a cookie jar, so session cookies set by the backend are
// sent back on later requests.
package client
