package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/prompts"
)

type socialIntentAgent struct {
	client *Client
}

type socialIntentWire struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (w socialIntentWire) validate() error {
	switch model.SocialAction(w.Action) {
	case model.SocialActionCreate, model.SocialActionEdit:
	default:
		return fmt.Errorf("unknown social action %q", w.Action)
	}
	return confidenceInRange(w.Confidence)
}

func (a *socialIntentAgent) ClassifySocialIntent(ctx context.Context, in SocialIntentInput) (*model.SocialIntentResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.classify(ctx, prompts.SocialIntentSystem(), user)
	if err != nil {
		return nil, fmt.Errorf("social intent classification: %w", err)
	}

	wire, err := decodeJSON[socialIntentWire]("social_intent", raw)
	if err != nil {
		return nil, err
	}

	return &model.SocialIntentResult{
		Action:     model.SocialAction(wire.Action),
		Confidence: wire.Confidence,
		Reasoning:  wire.Reasoning,
	}, nil
}
