package agents

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/prompts"
)

type editorAgent struct {
	client *Client
}

func (a *editorAgent) EditPost(ctx context.Context, in EditInput) (*GenerationResult, error) {
	user := joinSections(
		prompts.FormatHistory(in.LastMessages),
		prompts.FormatTargetPost(in.TargetPost),
		prompts.FormatArticle(in.Article),
		instructionsSection(in.Instructions),
	)

	raw, err := a.client.generate(ctx, prompts.EditorSystem(in.Platform), user)
	if err != nil {
		return nil, fmt.Errorf("post edit: %w", err)
	}

	wire, err := decodeJSON[generationWire]("post_editor", raw)
	if err != nil {
		return nil, err
	}
	return wire.toResult(), nil
}

func instructionsSection(instructions string) string {
	if instructions == "" {
		return ""
	}
	return "<edit_request>\n" + instructions + "\n</edit_request>"
}
