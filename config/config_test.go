package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	settings := Load()

	assert.Equal(t, "8080", settings.Port)
	assert.Equal(t, int64(31337), settings.ChainID)
	assert.Equal(t, 0.5, settings.EmissionFactorKgPerKwh)
	assert.Equal(t, 30.0, settings.UnitPriceYenPerKwh)
	assert.Equal(t, 0.7, settings.StepLengthM)
	assert.Equal(t, 0.2, settings.CarEmissionKgPerKm)
	assert.Equal(t, 30*time.Second, settings.DaoCacheTTL)
	assert.Equal(t, "data/leveldb", settings.DbPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EMISSION_FACTOR_KG_PER_KWH", "0.42")
	t.Setenv("CHAIN_ID", "11155111")
	t.Setenv("PORT", "9090")

	settings := Load()

	assert.Equal(t, 0.42, settings.EmissionFactorKgPerKwh)
	assert.Equal(t, int64(11155111), settings.ChainID)
	assert.Equal(t, "9090", settings.Port)
}

func TestLoadNonNumericFallsBackToDefault(t *testing.T) {
	t.Setenv("EMISSION_FACTOR_KG_PER_KWH", "lots")
	t.Setenv("CHAIN_ID", "mainnet")

	settings := Load()

	assert.Equal(t, 0.5, settings.EmissionFactorKgPerKwh)
	assert.Equal(t, int64(31337), settings.ChainID)
}
