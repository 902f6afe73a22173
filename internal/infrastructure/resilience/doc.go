/*
Package resilience provides an opt-in circuit breaker for the backend API.

The API client does not retry or short-circuit by default. When
API_BREAKER_ENABLED is set, every request passes through a Breaker: transport
errors and 5xx responses count as failures, everything else (including 4xx)
counts as success, because a 404 says nothing about backend health.

The breaker is two-step so the outcome can be classified after the response
has been read:

	done, err := breaker.Allow()
	if err != nil {
		return err // ErrCircuitOpen or ErrTooManyRequests
	}
	resp, err := send()
	done(err == nil && resp.StatusCode() < 500)

# States

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                             Open
*/
package resilience
