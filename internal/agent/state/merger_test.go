package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore-agent-poc/server/internal/risk"
)

func successfulAssessment(message string) risk.Assessment {
	return risk.Assessment{
		HasRisk:     true,
		Probability: 0.7,
		Message:     message,
		Succeeded:   true,
	}
}

func TestMergeIntoEmptyState(t *testing.T) {
	s := NewConversationState("sess-1")
	s.ResetTurn("my glucose is 210")

	MergeAssessment(s, successfulAssessment("you are at risk"))

	assert.Equal(t, "you are at risk", s.Answer)
	assert.Equal(t, SourceRiskAssessment, s.Source)
	assert.True(t, s.RiskDetected)
	require.NotNil(t, s.Assessment)
	assert.Equal(t, 0.7, s.Assessment.Probability)
}

func TestMergeAppendsToExistingAnswer(t *testing.T) {
	s := NewConversationState("sess-1")
	s.ResetTurn("question")
	s.SetAnswer("X", SourceKnowledge)

	MergeAssessment(s, successfulAssessment("risk details"))

	assert.Contains(t, s.Answer, "X")
	assert.Contains(t, s.Answer, "risk details")
	assert.Less(t, strings.Index(s.Answer, "X"), strings.Index(s.Answer, "risk details"),
		"existing answer must come first")
	assert.Contains(t, s.Answer, answerSeparator)
	assert.Equal(t, SourceKnowledge, s.Source,
		"a specific source from another agent is preserved, not overwritten")
}

func TestMergeUpgradesGenericSource(t *testing.T) {
	s := NewConversationState("sess-1")
	s.ResetTurn("question")
	s.Answer = "generic answer" // answer present but attribution never set

	MergeAssessment(s, successfulAssessment("risk details"))

	assert.Equal(t, SourceCombined, s.Source)
}

func TestMergeFailedAssessmentLeavesStateAlone(t *testing.T) {
	s := NewConversationState("sess-1")
	s.ResetTurn("question")
	s.SetAnswer("X", SourceKnowledge)
	s.RiskDetected = true

	MergeAssessment(s, risk.Assessment{Succeeded: false, Message: "internal error"})

	assert.Equal(t, "X", s.Answer)
	assert.Equal(t, SourceKnowledge, s.Source)
	assert.Nil(t, s.Assessment)
	assert.False(t, s.RiskDetected, "failure must clear the marker")
}

func TestMergeTwiceAppendsTwice(t *testing.T) {
	// Not idempotent on purpose; callers run the assessment once per turn.
	s := NewConversationState("sess-1")
	s.ResetTurn("question")

	MergeAssessment(s, successfulAssessment("first"))
	MergeAssessment(s, successfulAssessment("second"))

	assert.Contains(t, s.Answer, "first")
	assert.Contains(t, s.Answer, "second")
	assert.Equal(t, SourceRiskAssessment, s.Source,
		"first merge set a specific source, second must not upgrade it")
}

func TestResetTurnKeepsSessionIdentity(t *testing.T) {
	s := NewConversationState("sess-9")
	MergeAssessment(s, successfulAssessment("msg"))

	s.ResetTurn("next question")

	assert.Equal(t, "sess-9", s.SessionID)
	assert.Equal(t, "next question", s.Question)
	assert.Empty(t, s.Answer)
	assert.Equal(t, SourceUnknown, s.Source)
	assert.Nil(t, s.Assessment)
	assert.False(t, s.RiskDetected)
}
