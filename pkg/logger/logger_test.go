package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/acopio-api/pkg/logger"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func TestNewWithWriter_CamposEstructurados(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug").Component("settlement")

	log.Info().Str("company_id", "empresa-1").Int("items", 3).Msg("liquidación guardada")
	log.Debug().Msg("detalle")

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "settlement", got[0]["component"])
	assert.Equal(t, "empresa-1", got[0]["company_id"])
	assert.EqualValues(t, 3, got[0]["items"])
	assert.Equal(t, "liquidación guardada", got[0]["message"])
	assert.NotEmpty(t, got[0]["time"])
	assert.Equal(t, "debug", got[1]["level"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info")

	log.Debug().Msg("oculto")
	log.Warn().Msg("visible")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "visible", got[0]["message"])
}

func TestNewWithWriter_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "verbose")
	log.Debug().Msg("oculto")
	assert.Empty(t, buf.String())
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("nada") })
}
