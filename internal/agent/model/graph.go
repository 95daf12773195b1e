package model

import (
	"github.com/cloudwego/eino/schema"

	"github.com/medicore-agent-poc/server/internal/risk"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Cross-turn session state lives in the state.Store, not here.
type AppState struct {
	SessionID    string
	Question     string
	History      []*schema.Message // transcript window loaded for this turn
	RiskEligible bool              // relevance gate verdict for the question

	// Accumulated total LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

// QueryInput represents the input for processing one user turn.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// TurnResult is the merged outcome of one turn: the rendered answer with its
// attribution plus the structured risk assessment when one was produced.
type TurnResult struct {
	SessionID    string           `json:"session_id"`
	Answer       string           `json:"answer"`
	Source       string           `json:"source"`
	RiskDetected bool             `json:"risk_detected"`
	Assessment   *risk.Assessment `json:"assessment,omitempty"`
	CostUSD      float64          `json:"cost_usd"`
}
