package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50000, cfg.Aggregate.ExactThreshold)
	assert.Equal(t, 1000, cfg.Aggregate.ReservoirSize)
	assert.Equal(t, int64(1), cfg.Aggregate.Seed)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("AGG_EXACT_THRESHOLD", "100")
	t.Setenv("AGG_RESERVOIR_SIZE", "64")
	t.Setenv("AGG_SEED", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Aggregate.ExactThreshold)
	assert.Equal(t, 64, cfg.Aggregate.ReservoirSize)
	assert.Equal(t, int64(7), cfg.Aggregate.Seed)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AGG_EXACT_THRESHOLD", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsTinyReservoir(t *testing.T) {
	t.Setenv("AGG_RESERVOIR_SIZE", "1")
	_, err := Load()
	assert.Error(t, err)
}
