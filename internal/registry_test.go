package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay/internal"
)

// markMiddleware records its tag on entry, enough to observe chain order.
func markMiddleware(tag string, trace *[]string) internal.Middleware {
	return func(next internal.Next) internal.Next {
		return func(r *internal.Request) (*internal.Response, error) {
			*trace = append(*trace, tag)
			return next(r)
		}
	}
}

func runChain(t *testing.T, chain []internal.Middleware) {
	t.Helper()

	_, err := internal.NewPipeline().
		Pipe(chain...).
		To(okHandler).
		Run(internal.NewRequest("GET", "/x"), nil)
	require.NoError(t, err)
}

func markConstructor(tag string, trace *[]string) internal.Constructor {
	return func(args ...string) (internal.Middleware, error) {
		return markMiddleware(tag, trace), nil
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicate names across defs and groups", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("auth", markConstructor("auth", nil)))
		require.Error(t, reg.Register("auth", markConstructor("auth", nil)))
		require.Error(t, reg.Group("auth"))

		require.NoError(t, reg.Group("web"))
		require.Error(t, reg.Register("web", markConstructor("web", nil)))
	})

	t.Run("rejects empty name and nil constructor", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.Error(t, reg.Register("", markConstructor("x", nil)))
		require.Error(t, reg.Register("x", nil))
	})
}

func TestRegistryExpand(t *testing.T) {
	t.Parallel()

	t.Run("flattens nested groups in order", func(t *testing.T) {
		t.Parallel()

		var trace []string
		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("a", markConstructor("a", &trace)))
		require.NoError(t, reg.Register("b", markConstructor("b", &trace)))
		require.NoError(t, reg.Register("c", markConstructor("c", &trace)))
		require.NoError(t, reg.Group("inner", internal.Use("b")))
		require.NoError(t, reg.Group("outer", internal.Use("a"), internal.Use("inner")))

		chain, err := reg.Expand([]internal.Entry{internal.Use("outer"), internal.Use("c")})
		require.NoError(t, err)
		require.Len(t, chain, 3)

		runChain(t, chain)
		require.Equal(t, []string{"a", "b", "c"}, trace)
	})

	t.Run("deduplicates keeping the first occurrence", func(t *testing.T) {
		t.Parallel()

		var trace []string
		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("a", markConstructor("a", &trace)))
		require.NoError(t, reg.Register("b", markConstructor("b", &trace)))
		require.NoError(t, reg.Group("grp", internal.Use("a"), internal.Use("b")))

		// "a" appears directly and again through the group.
		chain, err := reg.Expand([]internal.Entry{internal.Use("a"), internal.Use("grp")})
		require.NoError(t, err)
		require.Len(t, chain, 2)

		runChain(t, chain)
		require.Equal(t, []string{"a", "b"}, trace)
	})

	t.Run("same name with different args stays distinct", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("role", func(args ...string) (internal.Middleware, error) {
			return func(next internal.Next) internal.Next { return next }, nil
		}))

		chain, err := reg.Expand([]internal.Entry{
			internal.Use("role", "editor"),
			internal.Use("role", "admin"),
			internal.Use("role", "editor"),
		})
		require.NoError(t, err)
		require.Len(t, chain, 2)
	})

	t.Run("inline entries dedup by identity", func(t *testing.T) {
		t.Parallel()

		mw := func(next internal.Next) internal.Next { return next }
		shared := internal.UseFunc(mw)

		reg := internal.NewRegistry()
		chain, err := reg.Expand([]internal.Entry{shared, shared, internal.UseFunc(mw)})
		require.NoError(t, err)
		require.Len(t, chain, 2)
	})

	t.Run("sorts by priority lower first keeping ties stable", func(t *testing.T) {
		t.Parallel()

		var trace []string
		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("last", markConstructor("last", &trace), internal.WithPriority(200)))
		require.NoError(t, reg.Register("first", markConstructor("first", &trace), internal.WithPriority(10)))
		require.NoError(t, reg.Register("mid-one", markConstructor("mid-one", &trace)))
		require.NoError(t, reg.Register("mid-two", markConstructor("mid-two", &trace)))

		chain, err := reg.Expand([]internal.Entry{
			internal.Use("last"),
			internal.Use("mid-one"),
			internal.Use("mid-two"),
			internal.Use("first"),
		})
		require.NoError(t, err)

		runChain(t, chain)
		require.Equal(t, []string{"first", "mid-one", "mid-two", "last"}, trace)
	})

	t.Run("unknown reference fails", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		_, err := reg.Expand([]internal.Entry{internal.Use("ghost")})
		require.Error(t, err)
		require.Contains(t, err.Error(), `"ghost"`)
	})

	t.Run("group cycle fails", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.NoError(t, reg.Group("a", internal.Use("b")))
		require.NoError(t, reg.Group("b", internal.Use("a")))

		_, err := reg.Expand([]internal.Entry{internal.Use("a")})
		require.Error(t, err)
		require.Contains(t, err.Error(), "cycle")
	})

	t.Run("group reference with arguments fails", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.NoError(t, reg.Group("web"))

		_, err := reg.Expand([]internal.Entry{internal.Use("web", "arg")})
		require.Error(t, err)
	})

	t.Run("constructor errors surface with the entry spelling", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("broken", func(args ...string) (internal.Middleware, error) {
			return nil, errors.New("bad config")
		}))

		_, err := reg.Expand([]internal.Entry{internal.Use("broken", "x")})
		require.Error(t, err)
		require.Contains(t, err.Error(), "broken:x")
		require.Contains(t, err.Error(), "bad config")
	})

	t.Run("instances are constructed once per name and args", func(t *testing.T) {
		t.Parallel()

		var constructed int
		reg := internal.NewRegistry()
		require.NoError(t, reg.Register("counted", func(args ...string) (internal.Middleware, error) {
			constructed++
			return func(next internal.Next) internal.Next { return next }, nil
		}))

		for i := 0; i < 3; i++ {
			_, err := reg.Expand([]internal.Entry{internal.Use("counted")})
			require.NoError(t, err)
		}
		require.Equal(t, 1, constructed)
	})
}

func TestRegisterFunc(t *testing.T) {
	t.Parallel()

	var trace []string
	reg := internal.NewRegistry()
	require.NoError(t, reg.RegisterFunc("plain", markMiddleware("plain", &trace)))

	chain, err := reg.Expand([]internal.Entry{internal.Use("plain")})
	require.NoError(t, err)
	runChain(t, chain)
	require.Equal(t, []string{"plain"}, trace)

	_, err = reg.Expand([]internal.Entry{internal.Use("plain", "unexpected")})
	require.Error(t, err)
}

func TestEntryString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "auth", internal.Use("auth").String())
	require.Equal(t, "role:editor,admin", internal.Use("role", "editor", "admin").String())
	require.Contains(t, internal.UseFunc(func(next internal.Next) internal.Next { return next }).String(), "inline#")
}
