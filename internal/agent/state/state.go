package state

import "github.com/medicore-agent-poc/server/internal/risk"

// Attribution labels for the rendered answer. SourceUnknown is the generic
// placeholder a fresh turn starts with; any other label was set by a specific
// agent and must be preserved by later merges.
const (
	SourceUnknown        = "Unknown"
	SourceKnowledge      = "AI Medical Knowledge"
	SourceRiskAssessment = "Diabetes Risk Assessment"
	SourceCombined       = "AI Medical Knowledge + Diabetes Risk Assessment"
)

// ConversationState is the per-session record that accumulates agent outputs
// across turns. It is owned by the session: created on the first turn,
// mutated every turn by whichever agents run, reset between turns.
type ConversationState struct {
	SessionID string `json:"session_id"`

	// Per-turn fields, cleared by ResetTurn.
	Question     string           `json:"question"`
	Answer       string           `json:"answer"`
	Source       string           `json:"source"`
	Assessment   *risk.Assessment `json:"assessment,omitempty"`
	RiskDetected bool             `json:"risk_detected"`
}

// NewConversationState creates the state for a fresh session.
func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		Source:    SourceUnknown,
	}
}

// ResetTurn clears the per-turn fields so a new question starts clean while
// the session identity survives.
func (s *ConversationState) ResetTurn(question string) {
	s.Question = question
	s.Answer = ""
	s.Source = SourceUnknown
	s.Assessment = nil
	s.RiskDetected = false
}

// SetAnswer records a response-generating agent's output. It never clobbers
// an earlier agent's answer: later contributions go through the merger.
func (s *ConversationState) SetAnswer(answer, source string) {
	if s.Answer == "" {
		s.Answer = answer
		s.Source = source
		return
	}
	s.Answer += answerSeparator + answer
}
