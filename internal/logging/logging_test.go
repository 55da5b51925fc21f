package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false, "info")

	log.Debug().Msg("hidden")
	log.Info().Str("test", "gnrh").Msg("converted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "converted", entry["message"])
	assert.Equal(t, "gnrh", entry["test"])
	assert.Equal(t, "info", entry["level"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriter_DevelopmentConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, true, "debug")

	log.Debug().Msg("occasion resolved")

	assert.Contains(t, buf.String(), "occasion resolved")
	assert.Contains(t, buf.String(), "DBG")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNewWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false, "loud")

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
