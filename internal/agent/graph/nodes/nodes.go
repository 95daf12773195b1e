package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/medicore-agent-poc/server/internal/agent/graph/conversations"
	"github.com/medicore-agent-poc/server/internal/agent/graph/prompts"
	"github.com/medicore-agent-poc/server/internal/agent/model"
	"github.com/medicore-agent-poc/server/internal/agent/state"
	"github.com/medicore-agent-poc/server/internal/risk"
	logx "github.com/medicore-agent-poc/server/pkg/logger"
)

// Graph node names.
const (
	NodeInputConverter    = "input_converter"
	NodeResponseChatModel = "response_chat_model"
	NodeRiskAgent         = "risk_agent"
	NodeFinalizer         = "finalizer"
)

// NewInputConverterPreHandler resets per-turn graph state and runs the cheap
// topic relevance gate so the expensive assessment path is only taken for
// eligible questions.
func NewInputConverterPreHandler(store *state.Store) func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.SessionID = in.SessionID
		s.Question = in.Query
		s.RiskEligible = risk.IsEligible(in.Query)
		s.History = nil
		s.TotalCostUSD = 0

		store.Update(in.SessionID, func(cs *state.ConversationState) {
			cs.ResetTurn(in.Query)
		})

		logx.Debug().
			Str("session_id", in.SessionID).
			Bool("risk_eligible", s.RiskEligible).
			Msg("turn started")
		return in, nil
	}
}

// NewInputConverterNode persists the user message, loads the trailing
// transcript window, and assembles the response model context.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	promptCfg *model.ResponsePromptConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		history, err := mm.BeginTurn(ctx, input.SessionID, input.Query)
		if err != nil {
			return nil, fmt.Errorf("begin turn: %w", err)
		}

		// keep the window in graph state for the risk agent
		err = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			s.History = history
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		systemPrompt, err := prompts.RenderResponseSystem(ctx, *promptCfg)
		if err != nil {
			return nil, fmt.Errorf("render response system prompt: %w", err)
		}

		return mm.BuildResponseContext(systemPrompt, history, input.Query), nil
	})
}

// NewResponseChatModelPostHandler records usage cost and folds the knowledge
// agent's answer into the session state. The answer goes through SetAnswer so
// an earlier agent's output (if any) is never clobbered.
func NewResponseChatModelPostHandler(
	store *state.Store,
	modelName string,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.AppState) (*schema.Message, error) {
		if model.CostEnabled() && out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			logx.Debug().
				Str("session_id", s.SessionID).
				Str("node", NodeResponseChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")
			s.TotalCostUSD += totalC
		}

		if out != nil && strings.TrimSpace(out.Content) != "" {
			store.Update(s.SessionID, func(cs *state.ConversationState) {
				cs.SetAnswer(out.Content, state.SourceKnowledge)
			})
		}

		return out, nil
	}
}

// NewRiskRouteCondition routes to the risk agent only when the relevance
// gate flagged the question during input conversion.
func NewRiskRouteCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, _ *schema.Message) (string, error) {
		var eligible bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			eligible = s.RiskEligible
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		if eligible {
			logx.Debug().Msg("routing to risk agent")
			return NodeRiskAgent, nil
		}
		logx.Debug().Msg("question not risk eligible - routing to finalizer")
		return NodeFinalizer, nil
	}
}

// NewRiskAgentNode runs the risk assessment over the question plus history
// window and merges the result into the session state. A failed assessment
// degrades silently: the turn still produces the knowledge agent's answer.
func NewRiskAgentNode(
	svc *risk.Service,
	store *state.Store,
	mm *conversations.MessagesManager,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*model.TurnResult, error) {
		var sessionID, question string
		var history []*schema.Message
		var cost float64
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			sessionID = s.SessionID
			question = s.Question
			history = s.History
			cost = s.TotalCostUSD
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		assessment := svc.Assess(question, history)
		if !assessment.Succeeded {
			logx.Warn().Str("session_id", sessionID).Str("message", assessment.Message).
				Msg("risk assessment unavailable for this turn")
		}

		merged := store.Update(sessionID, func(cs *state.ConversationState) {
			state.MergeAssessment(cs, assessment)
		})

		return finishTurn(ctx, mm, merged, cost)
	})
}

// NewFinalizerNode closes a turn that skipped the risk path.
func NewFinalizerNode(
	store *state.Store,
	mm *conversations.MessagesManager,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*model.TurnResult, error) {
		var sessionID string
		var cost float64
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			sessionID = s.SessionID
			cost = s.TotalCostUSD
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		snapshot, ok := store.Snapshot(sessionID)
		if !ok {
			return nil, fmt.Errorf("no session state for %s", sessionID)
		}
		return finishTurn(ctx, mm, snapshot, cost)
	})
}

// finishTurn persists the rendered answer and shapes the public result.
func finishTurn(ctx context.Context, mm *conversations.MessagesManager, cs state.ConversationState, cost float64) (*model.TurnResult, error) {
	if strings.TrimSpace(cs.Answer) != "" {
		if err := mm.SaveResponse(ctx, cs.SessionID, cs.Answer); err != nil {
			logx.Error().Str("session_id", cs.SessionID).Err(err).
				Msg("error saving assistant response")
		} else {
			logx.Debug().Str("session_id", cs.SessionID).
				Msg("saved assistant response to redis")
		}
	}

	return &model.TurnResult{
		SessionID:    cs.SessionID,
		Answer:       cs.Answer,
		Source:       cs.Source,
		RiskDetected: cs.RiskDetected,
		Assessment:   cs.Assessment,
		CostUSD:      cost,
	}, nil
}
