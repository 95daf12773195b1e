package state

import "github.com/medicore-agent-poc/server/internal/risk"

// answerSeparator visually sets a second agent's contribution apart from an
// answer that is already present.
const answerSeparator = "\n\n🔍 "

// MergeAssessment folds one risk assessment into the conversation state.
//
// Rules, in order:
//   - a failed assessment leaves the state untouched except for the
//     RiskDetected=false marker;
//   - an empty answer takes the assessment message verbatim with the risk
//     assessment source tag;
//   - an existing answer gets the message appended under the separator, and
//     the source is upgraded to the combined tag only when it was still the
//     generic placeholder; a specific label from another agent wins;
//   - the structured assessment is always attached so downstream consumers
//     can read probability and features independent of the rendered text.
//
// Merging is intentionally not idempotent: two merges append twice. Callers
// must run the assessment at most once per turn per session.
func MergeAssessment(s *ConversationState, a risk.Assessment) {
	if !a.Succeeded {
		s.RiskDetected = false
		return
	}

	if s.Answer == "" {
		s.Answer = a.Message
		s.Source = SourceRiskAssessment
	} else {
		s.Answer += answerSeparator + a.Message
		if s.Source == SourceUnknown {
			s.Source = SourceCombined
		}
	}

	s.Assessment = &a
	s.RiskDetected = true
}
