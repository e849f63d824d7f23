// Package agents wraps each language-model capability behind a typed
// function contract: one struct per capability, one model call per
// invocation, structured JSON output validated before anything trusts it.
package agents

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/feedcraft/server/internal/chat/model"
	logx "github.com/feedcraft/server/pkg/logger"
)

// ClientConfig holds what is needed to reach the model provider.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Classifier model.ClassifierModelConfig
	Generator  model.GeneratorModelConfig
}

// Client is the shared model client behind every capability agent.
// Classification agents run on the cheaper classifier model, generation
// agents on the generator model.
type Client struct {
	genai      *genai.Client
	classifier model.ClassifierModelConfig
	generator  model.GeneratorModelConfig
}

// NewClient creates the shared Gemini client.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	return &Client{
		genai:      client,
		classifier: cfg.Classifier,
		generator:  cfg.Generator,
	}, nil
}

// classify runs one classifier-model call returning JSON text.
func (c *Client) classify(ctx context.Context, system string, user string) (string, error) {
	return c.generateText(ctx, c.classifier.Model, c.classifier.Temperature, c.classifier.MaxTokens, system, user)
}

// generate runs one generator-model call returning JSON text.
func (c *Client) generate(ctx context.Context, system string, user string) (string, error) {
	return c.generateText(ctx, c.generator.Model, c.generator.Temperature, c.generator.MaxTokens, system, user)
}

func (c *Client) generateText(ctx context.Context, modelName string, temperature float32, maxTokens int32, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(temperature),
		MaxOutputTokens:   maxTokens,
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := c.genai.Models.GenerateContent(ctx, modelName, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	logx.Debug().Str("model", modelName).Int("output_len", len(text)).Msg("model call completed")
	return text, nil
}

// joinSections concatenates non-empty prompt sections with blank lines.
func joinSections(sections ...string) string {
	parts := sections[:0]
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
