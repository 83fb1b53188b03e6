package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-google-auth-gateway/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := logging.Setup(&buf, "PROD", "warn")

	logger.Info().Msg("dropped")
	logger.Warn().Str("flow", "code").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "kept", line["message"])
	require.Equal(t, "code", line["flow"])
	require.Equal(t, "warn", line["level"])
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := logging.Setup(&buf, "PROD", "chatty")
	logger.Debug().Msg("dropped")
	require.Zero(t, buf.Len())
	logger.Info().Msg("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestSetup_ConsoleInDev(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := logging.Setup(&buf, "dev", "info")
	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
