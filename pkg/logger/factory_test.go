package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhealth/recordkit/pkg/logger"
)

type ctxKey struct{}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNewDefaults(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug is below the default level")

	log.Info("shown", slog.String("k", "v"))
	rec := decodeRecord(t, &buf)
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestWithAttr(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "records")),
	)
	log.Info("hello")
	rec := decodeRecord(t, &buf)
	assert.Equal(t, "records", rec["service"])
}

func TestWithContextValue(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", ctxKey{}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-123")
	log.InfoContext(ctx, "with id")
	rec := decodeRecord(t, &buf)
	assert.Equal(t, "req-123", rec["request_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	rec = decodeRecord(t, &buf)
	_, ok := rec["request_id"]
	assert.False(t, ok)
}

func TestWithFormatPanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestAttrHelpers(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "form", logger.Form("PREG").Key)
	assert.Equal(t, slog.Attr{}, logger.DocID(""))
}
