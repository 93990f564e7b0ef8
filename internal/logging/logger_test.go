package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesPlainLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Info().Str("source", "stdin").Int("entries", 3).Msg("loaded")
	out := buf.String()
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "source=stdin")
	assert.Contains(t, out, "entries=3")
	assert.NotContains(t, out, "\x1b[")
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	log := l.Component("projection")
	log.Warn().Msg("rebuilt")
	assert.Contains(t, buf.String(), "component=projection")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewFile(path)
	require.NoError(t, err)
	l.Error().Msg("boom")
	require.NoError(t, l.Close())
	assert.FileExists(t, path)

	_, err = NewFile(filepath.Join(t.TempDir(), "missing", "app.log"))
	assert.Error(t, err)

	discard, err := NewFile("")
	require.NoError(t, err)
	discard.Info().Msg("nowhere")
	assert.NoError(t, discard.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
