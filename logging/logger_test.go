package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/xp-tracker/logging"
)

func TestZapLogger_WithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logging.FromZap(zap.New(core)).With("traveler_id", "t1")

	log.Info("cycle computed", "cycles", 3)
	log.Warn("data quality", "code", "invalid_date")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "cycle computed", first.Message)
	assert.Equal(t, "t1", first.ContextMap()["traveler_id"])
	assert.EqualValues(t, 3, first.ContextMap()["cycles"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = logging.ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = logging.ParseLevel("verbose")
	assert.Error(t, err)

	_, err = logging.New("verbose")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	log := logging.NewNop()
	log.Error("dropped")
	assert.NotNil(t, log.With("k", "v"))
}
