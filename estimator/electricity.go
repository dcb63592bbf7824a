package estimator

import (
	"fmt"
	"regexp"

	"github.com/ecodao-network/attester-node/types"
)

var (
	kwhPattern    = regexp.MustCompile(`(?i)([\d,.]+)\s*kwh`)
	yenPattern    = regexp.MustCompile(`([\d,]+)\s*[円圓]`)
	numberPattern = regexp.MustCompile(`[\d,]+`)
)

// FromElectricityBill estimates avoided emissions from an electricity bill.
// Branch order: explicit kWh readings, then a billed yen total divided by the unit
// price, then the largest plausible bare number. On a bill the largest usage figure
// is the total, not a partial line item, so each branch takes the maximum.
func FromElectricityBill(text string, f Factors) (types.EstimationResult, bool) {
	var kwhValues, yenValues, bareNumbers []float64

	for _, line := range splitLines(text) {
		if m := kwhPattern.FindStringSubmatch(line); m != nil {
			if v, ok := parseNumber(m[1]); ok && v > 0 && v < 10000 {
				kwhValues = append(kwhValues, v)
			}
		}
		if m := yenPattern.FindStringSubmatch(line); m != nil {
			// amounts of 1000 yen and below are unit prices or line items, not totals
			if v, ok := parseNumber(m[1]); ok && v > 1000 {
				yenValues = append(yenValues, v)
			}
		}
		for _, token := range numberPattern.FindAllString(line, -1) {
			if v, ok := parseNumber(token); ok && v > 0 && v < 100000 {
				bareNumbers = append(bareNumbers, v)
			}
		}
	}

	var usedKwh float64
	var reason string

	switch {
	case len(kwhValues) > 0:
		usedKwh = maxOf(kwhValues)
		reason = fmt.Sprintf("電気料金の明細から OCR で読み取った使用量 %.1f kWh をもとに計算しました。", usedKwh)
	case len(yenValues) > 0:
		yen := maxOf(yenValues)
		usedKwh = yen / f.UnitPriceYenPerKwh
		reason = fmt.Sprintf("電気料金の合計金額 %s 円 を 1 kWh あたり %g 円 とみなし、使用量を約 %.1f kWh と推定しました。",
			groupDigits(int64(yen)), f.UnitPriceYenPerKwh, usedKwh)
	default:
		var candidates []float64
		for _, v := range bareNumbers {
			if v > 10 && v < 2000 {
				candidates = append(candidates, v)
			}
		}
		if len(candidates) == 0 {
			return types.EstimationResult{}, false
		}
		usedKwh = maxOf(candidates)
		reason = fmt.Sprintf("OCR で明確な単位は読み取れませんでしたが、数値 %.0f を電力使用量 (kWh) として推定しました。", usedKwh)
	}

	kg := usedKwh * f.EmissionFactorKgPerKwh
	reason += fmt.Sprintf(" 排出係数 %g kg CO₂/kWh を掛け合わせ、%.3f kg CO₂ の削減があったと算出しました。",
		f.EmissionFactorKgPerKwh, kg)

	return resultFor(kg, reason), true
}
