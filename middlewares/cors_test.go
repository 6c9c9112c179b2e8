package middlewares_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay"
	"github.com/hostkit/relay/middlewares"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("ignores requests without origin", func(t *testing.T) {
		t.Parallel()

		resp, err := runMiddleware(middlewares.CORS(), okHandler, relay.NewRequest(http.MethodGet, "/"))
		require.NoError(t, err)
		require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allows all origins by default", func(t *testing.T) {
		t.Parallel()

		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://app.example.com"))

		resp, err := runMiddleware(middlewares.CORS(), okHandler, req)
		require.NoError(t, err)
		require.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, resp.Header().Values("Vary"), "Origin")
	})

	t.Run("echoes origin when specific origins configured", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowOrigins("https://app.example.com"))
		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://app.example.com"))

		resp, err := runMiddleware(mw, okHandler, req)
		require.NoError(t, err)
		require.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("skips headers for disallowed origins", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowOrigins("https://app.example.com"))
		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://evil.example.com"))

		resp, err := runMiddleware(mw, okHandler, req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status())
		require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("credentials echo the actual origin", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowCredentials())
		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://app.example.com"))

		resp, err := runMiddleware(mw, okHandler, req)
		require.NoError(t, err)
		require.Equal(t, "https://app.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight short-circuits before the handler", func(t *testing.T) {
		t.Parallel()

		handlerCalled := false
		handler := func(*relay.Request, relay.Args) (*relay.Response, error) {
			handlerCalled = true
			return relay.Output("ok"), nil
		}

		req := relay.NewRequest(http.MethodOptions, "/",
			relay.WithHeader("Origin", "https://app.example.com"),
			relay.WithHeader("Access-Control-Request-Method", http.MethodPost),
		)

		resp, err := runMiddleware(middlewares.CORS(), handler, req)
		require.NoError(t, err)
		require.False(t, handlerCalled)
		require.Equal(t, http.StatusNoContent, resp.Status())
		require.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		require.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		require.Equal(t, "43200", resp.Header().Get("Access-Control-Max-Age"))

		vary := resp.Header().Values("Vary")
		require.Contains(t, vary, "Origin")
		require.Contains(t, vary, "Access-Control-Request-Method")
		require.Contains(t, vary, "Access-Control-Request-Headers")
	})

	t.Run("expose headers on normal responses", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithExposeHeaders("X-Total-Count", "X-Page"))
		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://app.example.com"))

		resp, err := runMiddleware(mw, okHandler, req)
		require.NoError(t, err)
		require.Equal(t, "X-Total-Count, X-Page", resp.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("origin func overrides static list", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(
			middlewares.WithAllowOrigins("https://listed.example.com"),
			middlewares.WithAllowOriginFunc(func(origin string) bool {
				return strings.HasSuffix(origin, ".trusted.io")
			}),
		)

		trusted := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://a.trusted.io"))
		resp, err := runMiddleware(mw, okHandler, trusted)
		require.NoError(t, err)
		require.Equal(t, "https://a.trusted.io", resp.Header().Get("Access-Control-Allow-Origin"))

		listed := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://listed.example.com"))
		resp, err = runMiddleware(mw, okHandler, listed)
		require.NoError(t, err)
		require.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("passes nil responses through untouched", func(t *testing.T) {
		t.Parallel()

		failing := func(*relay.Request, relay.Args) (*relay.Response, error) {
			return nil, errors.New("broken")
		}

		req := relay.NewRequest(http.MethodGet, "/", relay.WithHeader("Origin", "https://app.example.com"))
		resp, err := runMiddleware(middlewares.CORS(), failing, req)
		require.Error(t, err)
		require.Nil(t, resp)
	})
}
