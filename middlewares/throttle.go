package middlewares

import (
	"go.uber.org/ratelimit"

	"github.com/hostkit/relay"
)

// Throttle returns middleware that smooths dispatch throughput to at most
// rps requests per second. Excess dispatches block until the limiter
// releases them rather than being rejected, so every request still
// completes.
//
// The limiter is shared by all dispatches passing through the returned
// middleware value. Registering the same entry on several routes keeps a
// single shared budget; construct separate entries for per-route budgets.
func Throttle(rps int) relay.Middleware {
	return ThrottleWithLimiter(ratelimit.New(rps))
}

// ThrottleWithLimiter is like Throttle but takes a prebuilt limiter.
// Useful for sharing one limiter across middleware instances or for
// passing ratelimit.NewUnlimited() in tests.
func ThrottleWithLimiter(limiter ratelimit.Limiter) relay.Middleware {
	return func(next relay.Next) relay.Next {
		return func(r *relay.Request) (*relay.Response, error) {
			limiter.Take()
			return next(r)
		}
	}
}
