package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fsWith(values map[Feature]float64) FeatureSet {
	var fs FeatureSet
	for f, v := range values {
		fs.Set(f, v)
	}
	return fs
}

func TestRuleScoreHighRiskCombination(t *testing.T) {
	fs := fsWith(map[Feature]float64{
		FeatureGlucose: 210,
		FeatureBMI:     32,
		FeatureAge:     50,
	})
	hasRisk, probability := RuleScore(fs)
	assert.True(t, hasRisk)
	assert.InDelta(t, 0.70, probability, 1e-9)
}

func TestRuleScoreNoEvidenceFloor(t *testing.T) {
	hasRisk, probability := RuleScore(FeatureSet{})
	assert.False(t, hasRisk)
	assert.Equal(t, 0.15, probability)
}

func TestRuleScoreGlucoseBands(t *testing.T) {
	tests := []struct {
		name     string
		glucose  float64
		wantProb float64
		wantRisk bool
	}{
		{"very high", 200, 0.40, true},
		{"high", 140, 0.30, true},
		{"elevated band is not a risk factor", 120, 0.15, false},
		{"normal", 90, 0.15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasRisk, probability := RuleScore(fsWith(map[Feature]float64{FeatureGlucose: tt.glucose}))
			assert.InDelta(t, tt.wantProb, probability, 1e-9)
			assert.Equal(t, tt.wantRisk, hasRisk)
		})
	}
}

func TestRuleScoreAllFactorsCombined(t *testing.T) {
	fs := fsWith(map[Feature]float64{
		FeatureGlucose:       250,
		FeatureBMI:           40,
		FeatureAge:           60,
		FeatureBloodPressure: 150,
		FeaturePedigree:      pedigreeScore,
	})
	hasRisk, probability := RuleScore(fs)
	assert.True(t, hasRisk)
	// 0.4+0.2+0.1+0.1+0.1, still below the 0.95 ceiling
	assert.InDelta(t, 0.90, probability, 1e-9)
}

func TestRuleScoreSingleWeakFactorHitsFloor(t *testing.T) {
	// Age alone contributes 0.1, which is a risk factor, so the [0.1, 0.95]
	// clamp applies instead of the 0.15 no-evidence default.
	hasRisk, probability := RuleScore(fsWith(map[Feature]float64{FeatureAge: 50}))
	assert.False(t, hasRisk)
	assert.InDelta(t, 0.10, probability, 1e-9)
}

func TestRuleScoreIgnoresImputedStyleAbsence(t *testing.T) {
	// Insulin and skin thickness never contribute; presence must not score.
	fs := fsWith(map[Feature]float64{
		FeatureInsulin:       300,
		FeatureSkinThickness: 50,
	})
	hasRisk, probability := RuleScore(fs)
	assert.False(t, hasRisk)
	assert.Equal(t, 0.15, probability)
}

func TestRuleScoreThresholdBoundary(t *testing.T) {
	// Glucose in [140,200) alone contributes exactly 0.30, the risk threshold.
	hasRisk, _ := RuleScore(fsWith(map[Feature]float64{FeatureGlucose: 150}))
	assert.True(t, hasRisk)
}
