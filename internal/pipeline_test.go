package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay/internal"
)

// tagMiddleware appends its tag on the way in and on the way out, so tests
// can observe the nesting order of the chain.
func tagMiddleware(tag string, trace *[]string) internal.Middleware {
	return func(next internal.Next) internal.Next {
		return func(r *internal.Request) (*internal.Response, error) {
			*trace = append(*trace, "in:"+tag)
			resp, err := next(r)
			*trace = append(*trace, "out:"+tag)
			return resp, err
		}
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	t.Run("first piped middleware wraps the rest", func(t *testing.T) {
		t.Parallel()

		var trace []string
		handler := func(r *internal.Request, args internal.Args) (*internal.Response, error) {
			trace = append(trace, "handler")
			return internal.Output("done"), nil
		}

		resp, err := internal.NewPipeline().
			Pipe(tagMiddleware("a", &trace), tagMiddleware("b", &trace)).
			Pipe(tagMiddleware("c", &trace)).
			To(handler).
			Run(internal.NewRequest("GET", "/x"), nil)

		require.NoError(t, err)
		require.NotNil(t, resp)
		require.Equal(t, []string{"in:a", "in:b", "in:c", "handler", "out:c", "out:b", "out:a"}, trace)
	})

	t.Run("middleware can short-circuit", func(t *testing.T) {
		t.Parallel()

		var handlerRan, innerRan bool
		deny := func(next internal.Next) internal.Next {
			return func(r *internal.Request) (*internal.Response, error) {
				return internal.ErrorResponse(403), nil
			}
		}
		inner := func(next internal.Next) internal.Next {
			return func(r *internal.Request) (*internal.Response, error) {
				innerRan = true
				return next(r)
			}
		}
		handler := func(r *internal.Request, args internal.Args) (*internal.Response, error) {
			handlerRan = true
			return internal.Output("never"), nil
		}

		resp, err := internal.NewPipeline().
			Pipe(deny, inner).
			To(handler).
			Run(internal.NewRequest("GET", "/x"), nil)

		require.NoError(t, err)
		require.Equal(t, 403, resp.Status())
		require.False(t, innerRan)
		require.False(t, handlerRan)
	})

	t.Run("request derivations flow downstream", func(t *testing.T) {
		t.Parallel()

		stamp := func(next internal.Next) internal.Next {
			return func(r *internal.Request) (*internal.Response, error) {
				return next(r.WithAttribute("stamped", true))
			}
		}
		handler := func(r *internal.Request, args internal.Args) (*internal.Response, error) {
			_, ok := r.Attribute("stamped")
			require.True(t, ok)
			return internal.Output("ok"), nil
		}

		original := internal.NewRequest("GET", "/x")
		_, err := internal.NewPipeline().Pipe(stamp).To(handler).Run(original, nil)
		require.NoError(t, err)

		_, ok := original.Attribute("stamped")
		require.False(t, ok)
	})

	t.Run("errors pass through untouched", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		handler := func(r *internal.Request, args internal.Args) (*internal.Response, error) {
			return nil, boom
		}

		var sawErr error
		observe := func(next internal.Next) internal.Next {
			return func(r *internal.Request) (*internal.Response, error) {
				resp, err := next(r)
				sawErr = err
				return resp, err
			}
		}

		resp, err := internal.NewPipeline().Pipe(observe).To(handler).Run(internal.NewRequest("GET", "/x"), nil)
		require.Nil(t, resp)
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, sawErr, boom)
	})

	t.Run("panics are not recovered", func(t *testing.T) {
		t.Parallel()

		handler := func(r *internal.Request, args internal.Args) (*internal.Response, error) {
			panic("unhandled")
		}

		require.Panics(t, func() {
			_, _ = internal.NewPipeline().To(handler).Run(internal.NewRequest("GET", "/x"), nil)
		})
	})

	t.Run("missing handler is an error", func(t *testing.T) {
		t.Parallel()

		_, err := internal.NewPipeline().Run(internal.NewRequest("GET", "/x"), nil)
		require.Error(t, err)
	})

	t.Run("handler receives route args", func(t *testing.T) {
		t.Parallel()

		args := internal.Args{{Name: "id", Value: "42"}}
		handler := func(r *internal.Request, got internal.Args) (*internal.Response, error) {
			require.Equal(t, "42", got.Get("id"))
			return internal.Output("ok"), nil
		}

		_, err := internal.NewPipeline().To(handler).Run(internal.NewRequest("GET", "/posts/42"), args)
		require.NoError(t, err)
	})
}
