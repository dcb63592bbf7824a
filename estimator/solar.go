package estimator

import (
	"fmt"

	"github.com/ecodao-network/attester-node/types"
)

// FromSolar estimates avoided emissions from a generation monitor screenshot:
// self-generated kWh offsetting the grid average.
func FromSolar(text string, f Factors) (types.EstimationResult, bool) {
	m := kwhPattern.FindStringSubmatch(text)
	if m == nil {
		return types.EstimationResult{}, false
	}

	kwh, ok := parseNumber(m[1])
	if !ok || kwh <= 0 {
		return types.EstimationResult{}, false
	}

	kg := kwh * f.EmissionFactorKgPerKwh

	reason := fmt.Sprintf("太陽光発電モニターから OCR で本日の発電電力量を %.1f kWh と推定しました。", kwh) +
		fmt.Sprintf("グリッドの平均排出係数 %g kg CO₂/kWh と比較し、%.3f kg CO₂ の削減があったと算出しました。", f.EmissionFactorKgPerKwh, kg)

	return resultFor(kg, reason), true
}
