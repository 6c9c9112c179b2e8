package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostkit/relay/pkg/logger"
)

type cycleKey struct{}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("injects value from context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, nil)
		log := slog.New(logger.NewContextHandler(handler, logger.Extract(cycleKey{}, "cycle_id")))

		ctx := context.WithValue(context.Background(), cycleKey{}, "11111111-2222")
		log.InfoContext(ctx, "dispatched")

		require.Contains(t, buf.String(), `"cycle_id":"11111111-2222"`)
	})

	t.Run("skips missing value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, nil)
		log := slog.New(logger.NewContextHandler(handler, logger.Extract(cycleKey{}, "cycle_id")))

		log.InfoContext(context.Background(), "dispatched")

		require.NotContains(t, buf.String(), "cycle_id")
	})

	t.Run("nil extractors are ignored", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, nil)
		log := slog.New(logger.NewContextHandler(handler, nil, logger.Extract(cycleKey{}, "cycle_id")))

		ctx := context.WithValue(context.Background(), cycleKey{}, "abc")
		log.InfoContext(ctx, "ok")

		require.Contains(t, buf.String(), `"cycle_id":"abc"`)
	})
}
