package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/prompts"
)

type selectorAgent struct {
	client *Client
}

type selectorWire struct {
	SelectedPostID   string   `json:"selected_post_id"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	Message          string   `json:"message"`
	SuggestedOptions []string `json:"suggested_options"`
}

func (w selectorWire) validate() error {
	if w.SelectedPostID == "" && w.Message == "" {
		return fmt.Errorf("neither a selection nor a clarification message")
	}
	return confidenceInRange(w.Confidence)
}

func (a *selectorAgent) SelectPost(ctx context.Context, in SelectorInput) (*SelectionResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatCandidatePosts(in.Posts),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.classify(ctx, prompts.SelectorSystem(), user)
	if err != nil {
		return nil, fmt.Errorf("post selection: %w", err)
	}

	wire, err := decodeJSON[selectorWire]("post_selector", raw)
	if err != nil {
		return nil, err
	}

	return &SelectionResult{
		SelectedPostID:   wire.SelectedPostID,
		Confidence:       wire.Confidence,
		Reasoning:        wire.Reasoning,
		Message:          wire.Message,
		SuggestedOptions: wire.SuggestedOptions,
	}, nil
}
