package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ecodao-network/attester-node/common"
)

// Settings holds all configuration for the attester node. Values are read once at
// startup; nothing re-reads the environment per request.
type Settings struct {
	Port     string
	LogLevel string

	// Attestation signing
	AttesterPrivateKey string
	ContractAddress    string
	ChainID            int64

	// OCR service
	OcrAPIEndpoint string
	OcrAPIKey      string

	// Estimation factors
	EmissionFactorKgPerKwh float64
	UnitPriceYenPerKwh     float64
	StepLengthM            float64
	CarEmissionKgPerKm     float64

	// DAO reads
	ExecutionClientRPC string
	DaoCacheTTL        time.Duration

	// Pinata pinning
	PinataAPIKey    string
	PinataSecretKey string
	PinataGateway   string

	DbPath string
}

// Load builds Settings from the environment. Numeric variables that are unset or
// non-numeric take their documented defaults.
func Load() *Settings {
	return &Settings{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AttesterPrivateKey: os.Getenv("ATTESTER_PRIVATE_KEY"),
		ContractAddress:    os.Getenv("CONTRACT_ADDRESS"),
		ChainID:            getEnvInt64("CHAIN_ID", common.DefaultChainID),

		OcrAPIEndpoint: os.Getenv("OCR_API_ENDPOINT"),
		OcrAPIKey:      os.Getenv("OCR_API_KEY"),

		EmissionFactorKgPerKwh: getEnvFloat("EMISSION_FACTOR_KG_PER_KWH", common.DefaultEmissionFactorKgPerKwh),
		UnitPriceYenPerKwh:     getEnvFloat("UNIT_PRICE_YEN_PER_KWH", common.DefaultUnitPriceYenPerKwh),
		StepLengthM:            getEnvFloat("STEP_LENGTH_M", common.DefaultStepLengthM),
		CarEmissionKgPerKm:     getEnvFloat("CAR_EMISSION_KG_PER_KM", common.DefaultCarEmissionKgPerKm),

		ExecutionClientRPC: getEnv("EXECUTION_CLIENT_RPC", common.DefaultExecutionClientRPC),
		DaoCacheTTL:        time.Duration(getEnvInt64("DAO_CACHE_TTL_SECONDS", common.DefaultDaoCacheTTLSeconds)) * time.Second,

		PinataAPIKey:    os.Getenv("PINATA_API_KEY"),
		PinataSecretKey: os.Getenv("PINATA_SECRET_KEY"),
		PinataGateway:   getEnv("PINATA_GATEWAY", common.DefaultPinataGateway),

		DbPath: getEnv("DB_PATH", common.DefaultDbPath),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
