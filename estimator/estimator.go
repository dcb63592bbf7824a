// Package estimator turns OCR text into CO2 reduction estimates. Every function
// here is pure: no I/O, no errors, a missing match is reported as ok=false and the
// resolver always degrades to a usable result.
package estimator

import (
	"math"
	"strconv"
	"strings"

	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/types"
)

// Factors are the conversion constants applied during estimation.
type Factors struct {
	EmissionFactorKgPerKwh float64
	UnitPriceYenPerKwh     float64
	StepLengthM            float64
	CarEmissionKgPerKm     float64
}

// DefaultFactors returns the documented defaults.
func DefaultFactors() Factors {
	return Factors{
		EmissionFactorKgPerKwh: common.DefaultEmissionFactorKgPerKwh,
		UnitPriceYenPerKwh:     common.DefaultUnitPriceYenPerKwh,
		StepLengthM:            common.DefaultStepLengthM,
		CarEmissionKgPerKm:     common.DefaultCarEmissionKgPerKm,
	}
}

// FactorsFromSettings lifts the configured constants out of Settings.
func FactorsFromSettings(s *config.Settings) Factors {
	return Factors{
		EmissionFactorKgPerKwh: s.EmissionFactorKgPerKwh,
		UnitPriceYenPerKwh:     s.UnitPriceYenPerKwh,
		StepLengthM:            s.StepLengthM,
		CarEmissionKgPerKm:     s.CarEmissionKgPerKm,
	}
}

// Func is a category estimator: OCR text in, estimate out, ok=false when the text
// carries no usable signal for that category.
type Func func(text string, f Factors) (types.EstimationResult, bool)

// gramEpsilon compensates for binary products landing just below a whole gram
// (8000 steps x 0.7 m x 0.2 kg/km must truncate to 1120 g, not 1119 g).
const gramEpsilon = 1e-6

func toGrams(kg float64) int64 {
	return int64(math.Floor(kg*1000 + gramEpsilon))
}

// resultFor truncates kg to gram resolution and re-derives the reported kg from the
// gram figure, so the two fields cannot disagree.
func resultFor(kg float64, reason string) types.EstimationResult {
	grams := toGrams(kg)
	return types.EstimationResult{
		AmountGrams: grams,
		AmountKg:    float64(grams) / 1000,
		Reason:      reason,
	}
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// parseNumber reads an OCR numeric token, tolerating comma grouping.
func parseNumber(token string) (float64, bool) {
	cleaned := strings.ReplaceAll(token, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// groupDigits renders n with comma grouping, matching how the figures appear on the
// bills themselves.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
