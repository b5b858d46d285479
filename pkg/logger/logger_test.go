package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxlab/mailroom/pkg/logger"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.Config{Format: "json", Level: "info"},
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "mailroom")),
	)

	log.Info("hello", logger.Email("a@b.co"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "mailroom", rec["service"])
	assert.Equal(t, "a@b.co", rec["email"])
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text", Level: "error"}, logger.WithOutput(&buf))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("kept", logger.Error(errors.New("boom")))
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "boom")
}

func TestError_NilIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.MessageID("").Equal(slog.Attr{}))
}
