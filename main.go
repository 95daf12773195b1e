package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/medicore-agent-poc/server/internal/agent/graph"
	"github.com/medicore-agent-poc/server/internal/agent/model"
	"github.com/medicore-agent-poc/server/internal/agent/repo"
	pkgredis "github.com/medicore-agent-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Risk         model.RiskConfig
}

func main() {
	fmt.Println("Testing medical turn-processing graph...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ResponseModel:    envCfg.Response,
		ResponsePrompt:   envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		Risk:             envCfg.Risk,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
	}

	runner, err := graph.BuildTurnGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "General medical question, no clinical values",
			query:       "What are common early symptoms of diabetes?",
		},
		{
			description: "Clinical values spread over the turn",
			query:       "My glucose is 160 and my BMI is 31. Should I be worried?",
		},
		{
			description: "Follow-up adding family history and age",
			query:       "I'm 52 and my mother had diabetes too.",
		},
		{
			description: "Unrelated question, risk path should be skipped",
			query:       "Thanks! Unrelated, but any tips for better sleep?",
		},
	}

	sessionID := "demo-session-0001"

	for i, test := range testQueries {
		fmt.Printf("\n🚀 Turn %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)
		fmt.Println("Processing...")

		result, err := runner.Invoke(ctx, model.QueryInput{
			SessionID: sessionID,
			Query:     test.query,
		})
		if err != nil {
			log.Fatalf("Failed to invoke graph for turn %d: %v", i+1, err)
		}

		fmt.Printf("✅ Answer %d [%s]: %s\n", i+1, result.Source, result.Answer)
		if result.Assessment != nil {
			fmt.Printf("   risk=%.1f%% detected=%v extracted=%d\n",
				result.Assessment.Probability*100,
				result.RiskDetected,
				result.Assessment.Features.ExtractedCount(),
			)
		}
		fmt.Println("─────────────────────────────────────────────")

		// add slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("🎉 All graph turns completed successfully!")
}
