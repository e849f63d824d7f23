package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/prompts"
)

type intentAgent struct {
	client *Client
}

type intentWire struct {
	Type               string  `json:"type"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
	ClarifyingQuestion string  `json:"clarifying_question"`
}

func (w intentWire) validate() error {
	switch model.IntentType(w.Type) {
	case model.IntentGeneral, model.IntentAskPost, model.IntentReqSocialPost,
		model.IntentEditSocialPost, model.IntentClarify:
	default:
		return fmt.Errorf("unknown intent type %q", w.Type)
	}
	return confidenceInRange(w.Confidence)
}

func (a *intentAgent) ClassifyIntent(ctx context.Context, in IntentInput) (*model.IntentResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		previousIntentSection(in.LastIntent),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.classify(ctx, prompts.IntentSystem(), user)
	if err != nil {
		return nil, fmt.Errorf("intent classification: %w", err)
	}

	wire, err := decodeJSON[intentWire]("intent", raw)
	if err != nil {
		return nil, err
	}

	return &model.IntentResult{
		Type:               model.IntentType(wire.Type),
		Confidence:         wire.Confidence,
		Reasoning:          wire.Reasoning,
		ClarifyingQuestion: wire.ClarifyingQuestion,
	}, nil
}

func previousIntentSection(lastIntent string) string {
	if lastIntent == "" {
		return ""
	}
	return "<previous_intent>" + lastIntent + "</previous_intent>"
}
