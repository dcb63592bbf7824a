package estimator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromElectricityBillUsesKwhReading(t *testing.T) {
	result, ok := FromElectricityBill("ご使用量 350 kWh\n合計 9000円", DefaultFactors())

	require.True(t, ok)
	assert.Equal(t, int64(175000), result.AmountGrams)
	assert.Equal(t, 175.0, result.AmountKg)
	assert.Contains(t, result.Reason, "350.0 kWh")
	assert.Contains(t, result.Reason, "排出係数 0.5 kg CO₂/kWh")
}

func TestFromElectricityBillTakesLargestKwhReading(t *testing.T) {
	text := "基本料金 40 kWh\nご使用量 420 kWh\n前月 310 kWh"
	result, ok := FromElectricityBill(text, DefaultFactors())

	require.True(t, ok)
	assert.Equal(t, int64(210000), result.AmountGrams)
}

func TestFromElectricityBillDerivesUsageFromYenTotal(t *testing.T) {
	result, ok := FromElectricityBill("合計金額 9,000円", DefaultFactors())

	require.True(t, ok)
	// 9000 yen / 30 yen per kWh = 300 kWh, times 0.5 kg/kWh
	assert.Equal(t, int64(150000), result.AmountGrams)
	assert.Equal(t, 150.0, result.AmountKg)
	assert.Contains(t, result.Reason, "9,000 円")
}

func TestFromElectricityBillIgnoresSmallYenAmounts(t *testing.T) {
	// 30 yen is a unit price, not a billed total; only the bare-number branch is left
	result, ok := FromElectricityBill("単価 30円\n使用量のめやす 280", DefaultFactors())

	require.True(t, ok)
	assert.Equal(t, int64(140000), result.AmountGrams)
	assert.Contains(t, result.Reason, "明確な単位は読み取れませんでした")
}

func TestFromElectricityBillLastResortScan(t *testing.T) {
	// 45678 is outside the plausible usage range, 123 is inside
	result, ok := FromElectricityBill("番号 45678\nめやす 123", DefaultFactors())

	require.True(t, ok)
	assert.Equal(t, int64(61500), result.AmountGrams)
}

func TestFromElectricityBillNoNumbers(t *testing.T) {
	_, ok := FromElectricityBill("文字だけの画像です", DefaultFactors())
	assert.False(t, ok)
}

func TestFromElectricityBillCustomFactors(t *testing.T) {
	f := DefaultFactors()
	f.EmissionFactorKgPerKwh = 0.4
	f.UnitPriceYenPerKwh = 25

	result, ok := FromElectricityBill("請求額 5,000円", f)

	require.True(t, ok)
	// 5000 / 25 = 200 kWh, times 0.4 kg/kWh = 80 kg
	assert.Equal(t, int64(80000), result.AmountGrams)
	assert.True(t, strings.Contains(result.Reason, "25 円"))
}
