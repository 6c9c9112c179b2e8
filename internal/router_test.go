package internal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay/internal"
)

func namedHandler(tag string) internal.HandlerFunc {
	return func(r *internal.Request, args internal.Args) (*internal.Response, error) {
		return internal.Output(tag), nil
	}
}

func TestRouterExecute(t *testing.T) {
	t.Parallel()

	t.Run("resolves by method and pattern", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Get("/posts", namedHandler("list"))
		router.Post("/posts", namedHandler("create"))

		route := router.Execute(internal.NewRequest("POST", "/posts"))
		require.NotNil(t, route)
		require.Equal(t, []string{"POST"}, route.Methods())

		require.Nil(t, router.Execute(internal.NewRequest("DELETE", "/posts")))
	})

	t.Run("first registered route wins among overlaps", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		first := router.Get("/posts/{id}", namedHandler("param"))
		router.Get("/posts/featured", namedHandler("literal"))

		// The later route is more specific but never reachable for
		// /posts/featured; order of registration is the contract.
		route := router.Execute(internal.NewRequest("GET", "/posts/featured"))
		require.Same(t, first, route)
	})

	t.Run("general-first shadows narrower routes", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		general := router.Any("/{page?}", namedHandler("catchall"))
		router.Get("/admin", namedHandler("admin"))

		require.Same(t, general, router.Execute(internal.NewRequest("GET", "/admin")))
	})

	t.Run("no match returns nil not an error", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Get("/a", namedHandler("a"))

		require.Nil(t, router.Execute(internal.NewRequest("GET", "/zzz")))
	})

	t.Run("condition failures fall through to later routes", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		gated := router.Get("/page", namedHandler("gated")).When(func(r *internal.Request) bool {
			return r.Query("preview") == "1"
		})
		fallback := router.Get("/page", namedHandler("fallback"))

		require.Same(t, fallback, router.Execute(internal.NewRequest("GET", "/page")))
		require.Same(t, gated, router.Execute(internal.NewRequest("GET", "/page?preview=1")))
	})

	t.Run("any method route matches everything", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Any("/webhook", namedHandler("hook"))

		for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
			require.NotNil(t, router.Execute(internal.NewRequest(method, "/webhook")), method)
		}
	})

	t.Run("execute has no side effects", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Get("/posts/{id:[0-9]+}", namedHandler("show"))

		req := internal.NewRequest("GET", "/posts/7")
		first := router.Execute(req)
		second := router.Execute(req)
		require.Same(t, first, second)
		require.Equal(t, "7", first.Args(req).Get("id"))
	})
}

func TestRouterErr(t *testing.T) {
	t.Parallel()

	t.Run("nil when all patterns compile", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Get("/ok/{id}", namedHandler("ok"))
		require.NoError(t, router.Err())
	})

	t.Run("collects every malformed pattern", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		router.Get("/bad/{id:[0-9+}", namedHandler("bad"))
		router.Get("/also-bad/{x?}/tail", namedHandler("worse"))
		router.Get("/fine", namedHandler("fine"))

		err := router.Err()
		require.Error(t, err)
		require.Contains(t, err.Error(), "/bad/{id:[0-9+}")
		require.Contains(t, err.Error(), "/also-bad/{x?}/tail")
	})

	t.Run("registration stays chainable after an error", func(t *testing.T) {
		t.Parallel()

		router := internal.NewRouter()
		route := router.Get("/bad/{id:[0-9+}", namedHandler("bad")).Named("broken")
		require.NotNil(t, route)
		require.Error(t, router.Err())
	})
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	router := internal.NewRouter()
	router.Get("/a", namedHandler("a"))
	router.Post("/b", namedHandler("b"))

	routes := router.Routes()
	require.Len(t, routes, 2)
	require.Equal(t, "/a", routes[0].Pattern())
	require.Equal(t, "/b", routes[1].Pattern())
}
