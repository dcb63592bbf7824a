package estimator

import (
	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/types"
)

// estimatorsByCategory is the total dispatch table. CategoryOther is deliberately
// absent: it goes straight to the fallback.
var estimatorsByCategory = map[types.EvidenceCategory]Func{
	types.CategoryElectricity:    FromElectricityBill,
	types.CategoryTransportation: FromSteps,
	types.CategorySolar:          FromSolar,
}

// ForCategory returns the estimator wired to a category, if any.
func ForCategory(category types.EvidenceCategory) (Func, bool) {
	fn, ok := estimatorsByCategory[category]
	return fn, ok
}

const selfReportedReason = "OCR による自動解析に失敗したため、ユーザー自己申告の削減量を 1 kg = 1000 g としてそのまま記録対象としました。"

// Resolve produces exactly one estimate for a submission, in strict precedence:
// estimator match on the OCR text, then a positive self-reported figure, then the
// per-category default. Total for every input; never an error.
func Resolve(sub *types.EvidenceSubmission, ocrText string, f Factors) types.EstimationResult {
	if ocrText != "" {
		if fn, ok := estimatorsByCategory[sub.Category]; ok {
			if result, matched := fn(ocrText, f); matched {
				return result
			}
		}
	}

	if sub.EstimatedKg > 0 {
		return resultFor(sub.EstimatedKg, selfReportedReason)
	}

	return Fallback(sub.Category)
}

// Fallback is the fixed heuristic mass assumed when no numeric signal could be
// extracted and no self-report was given.
func Fallback(category types.EvidenceCategory) types.EstimationResult {
	kg := common.FallbackOtherKg
	reason := "OCR による自動解析に失敗したため、証拠の種類に応じた簡易ルールで 1 kg CO₂ の削減があったと仮定しました。"

	switch category {
	case types.CategoryElectricity:
		kg = common.FallbackElectricityKg
		reason = "電気料金明細として提出されましたが数値の解析に失敗したため、家庭の平均的な節電量を 2 kg CO₂ として仮定しました。"
	case types.CategoryTransportation:
		kg = common.FallbackTransportationKg
		reason = "移動手段の記録として提出されましたが数値の解析に失敗したため、自家用車から公共交通への切り替え 1 回分を 1.5 kg CO₂ として仮定しました。"
	case types.CategorySolar:
		kg = common.FallbackSolarKg
		reason = "太陽光発電の記録として提出されましたが数値の解析に失敗したため、1 日あたり 2 kg CO₂ 相当の削減があったと仮定しました。"
	}

	return resultFor(kg, reason)
}
