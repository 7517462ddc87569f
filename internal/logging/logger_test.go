package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focuscore/internal/domain/entity"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "trace", want: zerolog.TraceLevel},
		{in: "DEBUG", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "off", want: zerolog.Disabled},
		{in: "disabled", want: zerolog.Disabled},
		{in: "loud", want: zerolog.InfoLevel},
		{in: "", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m), string(line))
		out = append(out, m)
	}
	return out
}

func TestNew_JSONHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.WarnLevel, Format: "json", Output: &buf})

	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
	assert.Contains(t, lines[0], "time")
}

func TestNew_FileGetsJSONAlongsideConsole(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "console", Output: &console, File: &file})

	logger.Info().Str("element", "A").Msg("focus moved")

	assert.Contains(t, console.String(), "focus moved")
	lines := decodeLines(t, &file)
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0]["element"])
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("FOCUSCORE_LOG_LEVEL", "error")
	t.Setenv("FOCUSCORE_LOG_FORMAT", "json")

	logger := NewFromEnv()
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf}))
	ctx = WithComponent(ctx, "focus")
	ctx = WithContextID(ctx, entity.DefaultContext)
	ctx = WithElement(ctx, "B")
	ctx = WithRunID(ctx, "20000101_000000_beef")

	FromContext(ctx).Debug().Msg("tagged")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "focus", lines[0]["component"])
	assert.Equal(t, string(entity.DefaultContext), lines[0]["focus_ctx"])
	assert.Equal(t, "B", lines[0]["element"])
	assert.Equal(t, "20000101_000000_beef", lines[0]["run"])
}

type markerKey struct{}

func TestDetach_KeepsOnlyLogger(t *testing.T) {
	var buf bytes.Buffer
	parent, cancel := context.WithCancel(context.Background())
	ctx := WithContext(parent, New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf}))
	ctx = WithElement(ctx, "A")
	ctx = context.WithValue(ctx, markerKey{}, true)

	detached := Detach(ctx)
	cancel()

	assert.NoError(t, detached.Err())
	assert.Nil(t, detached.Value(markerKey{}))
	FromContext(detached).Info().Msg("later")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0]["element"])
}

func TestFromContext_WithoutLoggerIsUsable(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info().Msg("nowhere")
	})
}
