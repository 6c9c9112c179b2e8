package internal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay/internal"
)

func TestResponseBuilder(t *testing.T) {
	t.Parallel()

	t.Run("defaults to empty 200", func(t *testing.T) {
		t.Parallel()

		resp := internal.NewResponse()
		require.Equal(t, 200, resp.Status())
		require.Nil(t, resp.Body())
	})

	t.Run("chains status header and body", func(t *testing.T) {
		t.Parallel()

		resp := internal.NewResponse().
			WithStatus(201).
			WithHeader("X-One", "1").
			AddHeader("X-Many", "a").
			AddHeader("X-Many", "b").
			WithBody(strings.NewReader("created"))

		require.Equal(t, 201, resp.Status())
		require.Equal(t, "1", resp.Header().Get("X-One"))
		require.Equal(t, []string{"a", "b"}, resp.Header().Values("X-Many"))

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.Equal(t, "created", string(body))
	})

	t.Run("body reads back after partial consumption", func(t *testing.T) {
		t.Parallel()

		resp := internal.Output("foobar")

		buf := make([]byte, 3)
		_, err := resp.Body().Read(buf)
		require.NoError(t, err)
		require.Equal(t, "foo", string(buf))

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.Equal(t, "foobar", string(body))
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes payload and sets content type", func(t *testing.T) {
		t.Parallel()

		resp, err := internal.JSON(map[string]any{"ok": true, "count": 3})
		require.NoError(t, err)
		require.Equal(t, 200, resp.Status())
		require.Equal(t, "application/json; charset=utf-8", resp.Header().Get("Content-Type"))

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true,"count":3}`, string(body))
	})

	t.Run("reports unencodable payload", func(t *testing.T) {
		t.Parallel()

		_, err := internal.JSON(map[string]any{"ch": make(chan int)})
		require.Error(t, err)
	})
}

func TestErrorResponse(t *testing.T) {
	t.Parallel()

	t.Run("uses standard status text by default", func(t *testing.T) {
		t.Parallel()

		resp := internal.ErrorResponse(404)
		require.Equal(t, 404, resp.Status())

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.Equal(t, "Not Found", string(body))
	})

	t.Run("uses custom message when given", func(t *testing.T) {
		t.Parallel()

		resp := internal.ErrorResponse(403, "members only")
		require.Equal(t, 403, resp.Status())

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.Equal(t, "members only", string(body))
	})

	t.Run("server errors keep their code", func(t *testing.T) {
		t.Parallel()

		resp := internal.ErrorResponse(500)
		require.Equal(t, 500, resp.Status())

		body, err := resp.BodyBytes()
		require.NoError(t, err)
		require.Equal(t, "Internal Server Error", string(body))
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("defaults to 302", func(t *testing.T) {
		t.Parallel()

		resp := internal.Redirect("/login")
		require.Equal(t, 302, resp.Status())
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("status can be overridden", func(t *testing.T) {
		t.Parallel()

		resp := internal.Redirect("/moved").WithStatus(301)
		require.Equal(t, 301, resp.Status())
		require.Equal(t, "/moved", resp.Header().Get("Location"))
	})
}

func TestBodyBytesNilBody(t *testing.T) {
	t.Parallel()

	body, err := internal.NewResponse().BodyBytes()
	require.NoError(t, err)
	require.Nil(t, body)
}
