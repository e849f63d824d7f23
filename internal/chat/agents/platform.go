package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/prompts"
)

type platformAgent struct {
	client *Client
}

type platformWire struct {
	Platform           string   `json:"platform"`
	Confidence         float64  `json:"confidence"`
	NeedsClarification bool     `json:"needs_clarification"`
	Message            string   `json:"message"`
	SuggestedOptions   []string `json:"suggested_options"`
}

func (w platformWire) validate() error {
	if w.Platform != "" && !model.KnownPlatform(model.Platform(w.Platform)) {
		return fmt.Errorf("unknown platform %q", w.Platform)
	}
	if !w.NeedsClarification && w.Platform == "" {
		return fmt.Errorf("no platform and no clarification requested")
	}
	return confidenceInRange(w.Confidence)
}

func (a *platformAgent) ClassifyPlatform(ctx context.Context, in PlatformInput) (*model.PlatformResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.classify(ctx, prompts.PlatformSystem(), user)
	if err != nil {
		return nil, fmt.Errorf("platform classification: %w", err)
	}

	wire, err := decodeJSON[platformWire]("platform", raw)
	if err != nil {
		return nil, err
	}

	return &model.PlatformResult{
		Platform:             model.Platform(wire.Platform),
		Confidence:           wire.Confidence,
		NeedsClarification:   wire.NeedsClarification,
		ClarificationMessage: wire.Message,
		SuggestedOptions:     wire.SuggestedOptions,
	}, nil
}
