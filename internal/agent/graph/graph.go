package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/medicore-agent-poc/server/internal/agent/graph/conversations"
	"github.com/medicore-agent-poc/server/internal/agent/graph/nodes"
	"github.com/medicore-agent-poc/server/internal/agent/graph/observers"
	"github.com/medicore-agent-poc/server/internal/agent/model"
	"github.com/medicore-agent-poc/server/internal/agent/state"
	"github.com/medicore-agent-poc/server/internal/risk"
	logx "github.com/medicore-agent-poc/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// model, messages manager, risk service and state store.
type Config struct {
	APIKey           string
	BaseURL          string
	ResponseModel    model.ResponseModelConfig
	ResponsePrompt   model.ResponsePromptConfig
	Conversation     model.ConversationConfig
	Risk             model.RiskConfig
	ConversationRepo model.ConversationRepository

	// StateStore is optional; a fresh store is created when nil. Share one
	// store across graphs when other agents need the same session table.
	StateStore *state.Store
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	RiskService     *risk.Service
	StateStore      *state.Store
	PromptConfig    *model.ResponsePromptConfig
}

// GraphBuilder handles the construction of the turn-processing graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *model.TurnResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *model.TurnResult]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.TurnResult, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		SessionID: in.SessionID,
		Query:     in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildTurnGraph composes the chat model, messages manager, risk service and
// state store, builds the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		RespConfig: &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	// One adapter per process: the artifact load is single-flight and the
	// unavailable state is meant to stick for the process lifetime.
	riskService := risk.NewService(risk.NewModelAdapter(cfg.Risk.ModelPath))

	store := cfg.StateStore
	if store == nil {
		store = state.NewStore()
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		RiskService:     riskService,
		StateStore:      store,
		PromptConfig:    &cfg.ResponsePrompt,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled turn-processing graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *model.TurnResult], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat model is not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.RiskService == nil || config.StateStore == nil {
		return nil, fmt.Errorf("risk service/state store is nil")
	}
	if config.PromptConfig == nil {
		return nil, fmt.Errorf("prompt config is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.PromptConfig),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler(b.config.StateStore)),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		nodes.NewResponseChatModelNode(b.config.ChatModels.Response),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.StateStore, b.config.ChatModels.ResponseModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeRiskAgent,
		nodes.NewRiskAgentNode(b.config.RiskService, b.config.StateStore, b.config.MessagesManager),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalizer,
		nodes.NewFinalizerNode(b.config.StateStore, b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeRiskAgent, compose.END},
		{nodes.NodeFinalizer, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	riskBranch := compose.NewGraphBranch(
		nodes.NewRiskRouteCondition(),
		map[string]bool{
			nodes.NodeRiskAgent: true,
			nodes.NodeFinalizer: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, riskBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding risk routing branch")
		return fmt.Errorf("error adding risk routing branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.TurnResult], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
