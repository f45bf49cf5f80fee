package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("test"),
		styles.Error.Render("test"),
		styles.Code.Render("test"),
		styles.Lexeme.Render("test"),
		styles.Banner.Render("test"),
		styles.Heading.Render("test"),
	} {
		assert.Equal(t, "test", rendered, "no-color styles should not add formatting")
	}
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "buffer is not a TTY")
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout), "always overrides NO_COLOR")
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}

func TestStyles_AllFieldsInitialized(t *testing.T) {
	styles := pretty.NewStyles(true)

	for name, style := range map[string]interface{ Render(...string) string }{
		"Error":        styles.Error,
		"Warning":      styles.Warning,
		"Info":         styles.Info,
		"FilePath":     styles.FilePath,
		"Location":     styles.Location,
		"Code":         styles.Code,
		"Message":      styles.Message,
		"Lexeme":       styles.Lexeme,
		"SourceLine":   styles.SourceLine,
		"Caret":        styles.Caret,
		"SummaryTitle": styles.SummaryTitle,
		"SummaryValue": styles.SummaryValue,
		"Success":      styles.Success,
		"Failure":      styles.Failure,
		"Banner":       styles.Banner,
		"Heading":      styles.Heading,
		"Flag":         styles.Flag,
		"Dim":          styles.Dim,
		"Bold":         styles.Bold,
	} {
		assert.NotEmpty(t, style.Render("x"), name)
	}
}
