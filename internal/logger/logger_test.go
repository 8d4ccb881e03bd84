package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "json", "info")

	log.Info("sale created", "sale_id", 12)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sale created", line["msg"])
	assert.Equal(t, float64(12), line["sale_id"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "text", "warn")

	log.Info("ignored")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
