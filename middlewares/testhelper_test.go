package middlewares_test

import (
	"github.com/hostkit/relay"
)

// runMiddleware sends a request through a single middleware into the given
// handler and returns the outcome.
func runMiddleware(m relay.Middleware, h relay.HandlerFunc, r *relay.Request) (*relay.Response, error) {
	return relay.NewPipeline().Pipe(m).To(h).Run(r, nil)
}

// okHandler answers every request with a plain 200 body.
func okHandler(*relay.Request, relay.Args) (*relay.Response, error) {
	return relay.Output("ok"), nil
}
