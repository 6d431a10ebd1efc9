package xclient

import "golang.org/x/time/rate"

// newLimiter builds the client-side request limiter, defaulting to the
// user_timeline allowance of roughly one request per second.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
