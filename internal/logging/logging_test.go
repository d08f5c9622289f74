package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/internal/logging"
)

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "json", "warn")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("case", "booking-flow/positive-booking").Msg("Case finished")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "booking-flow/positive-booking", line["case"])
	assert.Contains(t, line, "time")
}

func TestNew_console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "console", "")
	require.NoError(t, err)

	logger.Info().Msg("Run finished")
	assert.Contains(t, buf.String(), "Run finished")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestNew_badLevel(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "json", "loud")
	assert.Error(t, err)
}
