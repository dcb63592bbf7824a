package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEvidenceCategory(t *testing.T) {
	assert.Equal(t, CategoryElectricity, ParseEvidenceCategory("electricity"))
	assert.Equal(t, CategoryTransportation, ParseEvidenceCategory("transportation"))
	assert.Equal(t, CategorySolar, ParseEvidenceCategory("solar"))
	assert.Equal(t, CategoryOther, ParseEvidenceCategory("other"))

	// anything outside the closed set degrades to the estimator-less category
	assert.Equal(t, CategoryOther, ParseEvidenceCategory(""))
	assert.Equal(t, CategoryOther, ParseEvidenceCategory("Electricity"))
	assert.Equal(t, CategoryOther, ParseEvidenceCategory("gas"))
}
