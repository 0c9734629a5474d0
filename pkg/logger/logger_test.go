package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewWithWriter(Config{Level: "WARN"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Warn().Str("mac", "AA:BB:CC:DD:EE:01").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "beatradar", line["service"])
	assert.Equal(t, "AA:BB:CC:DD:EE:01", line["mac"])
}

func TestNewWithWriter_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewWithWriter(Config{}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	_, err := NewWithWriter(Config{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}
