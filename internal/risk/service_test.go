package risk

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuleOnlyService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewModelAdapter(filepath.Join(t.TempDir(), "missing.json")))
}

func TestAssessWithoutModelMatchesRuleFormula(t *testing.T) {
	svc := newRuleOnlyService(t)
	a := svc.Assess("glucose is 210, bmi is 32 and i am 50 years old", nil)

	require.True(t, a.Succeeded)
	assert.True(t, a.HasRisk)
	assert.InDelta(t, 0.70, a.Probability, 1e-9)
	assert.Equal(t, 3, a.Features.ExtractedCount())
	assert.Contains(t, a.Message, "Based on 3 extracted medical values")
	assert.Contains(t, a.Message, "70.0%")
	assert.Contains(t, a.Message, "healthcare professional")
}

func TestAssessLowConfidenceQualifier(t *testing.T) {
	svc := newRuleOnlyService(t)
	a := svc.Assess("my glucose is 130", nil)

	require.True(t, a.Succeeded)
	assert.False(t, a.HasRisk)
	assert.Contains(t, a.Message, "Limited information available")
	assert.Contains(t, a.Message, "1 extracted values")
}

func TestAssessNoClinicalMentions(t *testing.T) {
	svc := newRuleOnlyService(t)
	a := svc.Assess("hello there", nil)

	require.True(t, a.Succeeded)
	assert.False(t, a.HasRisk)
	assert.Equal(t, 0.15, a.Probability)
	assert.Equal(t, 0, a.Features.ExtractedCount())
}

func TestAssessIsDeterministic(t *testing.T) {
	svc := newRuleOnlyService(t)
	history := []*schema.Message{schema.UserMessage("my bmi is 31")}

	first := svc.Assess("glucose is 145", history)
	for i := 0; i < 5; i++ {
		again := svc.Assess("glucose is 145", history)
		assert.Equal(t, first.Features, again.Features)
		assert.Equal(t, first.Probability, again.Probability)
		assert.Equal(t, first.Message, again.Message)
	}
}

func TestAssessUsesLoadedModel(t *testing.T) {
	// All-zero weights with a large positive intercept: every vector maps to
	// a high positive probability regardless of features.
	stub := &logisticClassifier{intercept: 3.0}
	svc := NewService(NewStubAdapter(stub))

	a := svc.Assess("glucose is 90", nil)
	require.True(t, a.Succeeded)
	assert.True(t, a.HasRisk)
	assert.Greater(t, a.Probability, 0.9)
}

func TestAssessFallsBackOnTransientModelError(t *testing.T) {
	svc := NewService(NewStubAdapter(failingClassifier{}))

	a := svc.Assess("glucose is 210, bmi is 32 and i am 50 years old", nil)
	require.True(t, a.Succeeded, "a transient model failure must not surface to the caller")
	assert.InDelta(t, 0.70, a.Probability, 1e-9, "fallback must score the extracted features")
}

func TestAssessMessagePhrasing(t *testing.T) {
	svc := newRuleOnlyService(t)

	risky := svc.Assess("glucose is 210, bmi is 32 and i am 50 years old", nil)
	assert.True(t, strings.Contains(risky.Message, "risk of diabetes"))

	calm := svc.Assess("my glucose is 90, bmi is 22 and i am 30 years old", nil)
	assert.False(t, calm.HasRisk)
	assert.True(t, strings.Contains(calm.Message, "appears low"))
}
