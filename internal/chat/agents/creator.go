package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/prompts"
)

type creatorAgent struct {
	client *Client
}

type generationWire struct {
	Message        string `json:"message"`
	StructuredPost struct {
		PostContent    string   `json:"post_content"`
		CodeExamples   []string `json:"code_examples"`
		VisualElements []string `json:"visual_elements"`
	} `json:"structured_post"`
	SuggestedOptions []string `json:"suggested_options"`
}

func (w generationWire) validate() error {
	if w.StructuredPost.PostContent == "" {
		return fmt.Errorf("structured_post.post_content is empty")
	}
	return nil
}

func (w generationWire) toResult() *GenerationResult {
	return &GenerationResult{
		Message: w.Message,
		StructuredPost: &model.StructuredPost{
			PostContent:    w.StructuredPost.PostContent,
			CodeExamples:   w.StructuredPost.CodeExamples,
			VisualElements: w.StructuredPost.VisualElements,
		},
		SuggestedOptions: w.SuggestedOptions,
	}
}

func (a *creatorAgent) CreatePost(ctx context.Context, in CreateInput) (*GenerationResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatArticle(in.Article),
		preferencesSection(in.Preferences),
	)

	raw, err := a.client.generate(ctx, prompts.CreatorSystem(in.Platform), user)
	if err != nil {
		return nil, fmt.Errorf("post creation: %w", err)
	}

	wire, err := decodeJSON[generationWire]("post_creator", raw)
	if err != nil {
		return nil, err
	}
	return wire.toResult(), nil
}

func preferencesSection(prefs string) string {
	if prefs == "" {
		return ""
	}
	return "<preferences>\n" + prefs + "\n</preferences>"
}
