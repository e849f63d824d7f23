package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/prompts"
)

type replyWire struct {
	Response         string   `json:"response"`
	SuggestedOptions []string `json:"suggested_options"`
}

func (w replyWire) validate() error {
	if w.Response == "" {
		return fmt.Errorf("response is empty")
	}
	return nil
}

type qaAgent struct {
	client *Client
}

func (a *qaAgent) AnswerQuestion(ctx context.Context, in ReplyInput) (*ReplyResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatArticle(in.Post),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.generate(ctx, prompts.QASystem(), user)
	if err != nil {
		return nil, fmt.Errorf("article qa: %w", err)
	}

	wire, err := decodeJSON[replyWire]("post_qa", raw)
	if err != nil {
		return nil, err
	}
	return &ReplyResult{Response: wire.Response, SuggestedOptions: wire.SuggestedOptions}, nil
}

type supportAgent struct {
	client *Client
}

func (a *supportAgent) Respond(ctx context.Context, in ReplyInput) (*ReplyResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatArticle(in.Post),
		prompts.FormatCurrentMessage(in.Message),
	)

	raw, err := a.client.classify(ctx, prompts.SupportSystem(), user)
	if err != nil {
		return nil, fmt.Errorf("general support: %w", err)
	}

	wire, err := decodeJSON[replyWire]("support", raw)
	if err != nil {
		return nil, err
	}
	return &ReplyResult{Response: wire.Response, SuggestedOptions: wire.SuggestedOptions}, nil
}
