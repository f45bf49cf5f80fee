package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]log.Level{
		"debug":     log.DebugLevel,
		"info":      log.InfoLevel,
		"warn":      log.WarnLevel,
		"warning":   log.WarnLevel,
		"error":     log.ErrorLevel,
		"DEBUG":     log.DebugLevel,
		" Warning ": log.WarnLevel,
		"":          log.InfoLevel,
		"verbose":   log.InfoLevel,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, want, logging.ParseLevel(input))
			assert.Equal(t, want, logging.New(input).GetLevel())
		})
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")
	logger.Debug("tokenized", logging.FieldTokens, 12)

	assert.Contains(t, buf.String(), "tokens=12")
}

//nolint:paralleltest // Replaces the process-wide logger.
func TestDefaultLogger(t *testing.T) {
	original := logging.Default()
	require.NotNil(t, original)
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := logging.NewWithWriter(&bytes.Buffer{}, "warn")
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()), "falls back to the default logger")
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))
	ctx = logging.WithFields(ctx, logging.FieldPath, "views/main.dui")

	logging.FromContext(ctx).Debug("compiled", logging.FieldDirectives, 3)

	assert.Contains(t, buf.String(), "path=views/main.dui")
	assert.Contains(t, buf.String(), "directives=3")
}
