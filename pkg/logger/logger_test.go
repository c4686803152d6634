package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Service: "almacen", Output: &buf})

	cl := l.Component("impex")
	cl.Info().Int("rows", 3).Msg("import started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "almacen", line["service"])
	assert.Equal(t, "impex", line["component"])
	assert.Equal(t, "import started", line["message"])
	assert.EqualValues(t, 3, line["rows"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("ruido"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}
