package shared

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottledTransport is an [http.RoundTripper] that waits on a token bucket before each request.
//
// It keeps the client under the remote API quota. Requests are delayed, never retried.
type ThrottledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewThrottledTransport wraps base (defaulting to [http.DefaultTransport]) with a limiter allowing rps requests per second.
func NewThrottledTransport(base http.RoundTripper, rps float64, burst int) *ThrottledTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst < 1 {
		burst = 1
	}
	return &ThrottledTransport{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// RoundTrip implements [http.RoundTripper].
func (t *ThrottledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
