package estimator

import (
	"fmt"
	"regexp"

	"github.com/ecodao-network/attester-node/types"
)

var stepPattern = regexp.MustCompile(`(?i)([\d,]+)\s*(歩|steps?)`)

// FromSteps estimates avoided emissions from a step-count screenshot: steps walked
// instead of driven, valued at the car emission factor.
func FromSteps(text string, f Factors) (types.EstimationResult, bool) {
	m := stepPattern.FindStringSubmatch(text)
	if m == nil {
		return types.EstimationResult{}, false
	}

	steps, ok := parseNumber(m[1])
	if !ok || steps <= 0 {
		return types.EstimationResult{}, false
	}

	distanceKm := steps * f.StepLengthM / 1000
	kg := distanceKm * f.CarEmissionKgPerKm

	reason := fmt.Sprintf("歩数スクリーンショットから OCR で %s 歩と推定しました。", groupDigits(int64(steps))) +
		fmt.Sprintf("1 歩あたり %g m と仮定し、合計距離 %.2f km を徒歩とみなしました。", f.StepLengthM, distanceKm) +
		fmt.Sprintf("自家用車の排出係数 %g kg CO₂/km と比較し、%.3f kg CO₂ の削減があったと算出しました。", f.CarEmissionKgPerKm, kg)

	return resultFor(kg, reason), true
}
