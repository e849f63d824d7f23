package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/feedcraft/server/internal/chat"
	"github.com/feedcraft/server/internal/chat/agents"
	chatgraph "github.com/feedcraft/server/internal/chat/graph"
	"github.com/feedcraft/server/internal/chat/memory"
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/postprocess"
	"github.com/feedcraft/server/internal/core"
	"github.com/feedcraft/server/pkg/graph"
	logx "github.com/feedcraft/server/pkg/logger"
	pkgredis "github.com/feedcraft/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the conversational
// backend, sourced from environment variables (loaded from .env for local
// runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Generator    model.GeneratorModelConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", cfg.Conversation.TTL, err)
	}
	repo := memory.NewRedisRepository(rdb, ttl)

	client, err := agents.NewClient(ctx, agents.ClientConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: cfg.Classifier,
		Generator:  cfg.Generator,
	})
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}

	runner, err := chatgraph.Build(agents.New(client))
	if err != nil {
		log.Fatalf("Failed to build conversation graph: %v", err)
	}

	svc := chat.NewService(runner, repo, postprocess.NewManager(repo))

	article := &model.ArticlePost{
		ID:      "article-42",
		Title:   "Go 1.25 Performance Notes",
		Summary: "A walk through the runtime and compiler improvements shipped in Go 1.25.",
		Content: "Go 1.25 brings a faster garbage collector, flatter call frames and smaller binaries...",
	}

	turns := []struct {
		description string
		message     string
	}{
		{
			description: "Question about the article",
			message:     "What's this article about?",
		},
		{
			description: "Create a social post",
			message:     "Write a LinkedIn post about this",
		},
		{
			description: "Edit the post just created",
			message:     "Make it shorter and punchier",
		},
	}

	sessionID := "demo-session-1"
	sink := graph.SinkFunc(func(event string, payload any) {
		fmt.Printf("  [%s] %v\n", event, payload)
	})

	for i, turn := range turns {
		fmt.Printf("\nTurn %d: %s\n", i+1, turn.description)
		fmt.Printf("User: %q\n", turn.message)

		envelope, err := svc.HandleMessage(ctx, chat.HandleInput{
			SessionID: sessionID,
			UserID:    "demo-user",
			ThreadID:  fmt.Sprintf("thread-%d", i+1),
			Message:   turn.message,
			Post:      article,
			Sink:      sink,
		})
		if err != nil {
			log.Fatalf("Turn %d failed: %v", i+1, err)
		}

		fmt.Printf("Assistant: %s\n", envelope.Response)
		if envelope.IsSocialPost && envelope.StructuredPost != nil {
			fmt.Printf("Post [%s]:\n%s\n", envelope.SocialPostID, envelope.StructuredPost.PostContent)
		}
		for _, opt := range envelope.SuggestedOptions {
			fmt.Printf("  option: %s\n", opt)
		}
	}
}
