package agents

import (
	"context"

	"github.com/feedcraft/server/internal/chat/model"
)

// Every agent assumes LastMessages is already bounded by the state
// constructor; no agent applies its own truncation policy.

// IntentInput feeds the intent classifier.
type IntentInput struct {
	Message      string
	LastMessages []model.MessagePair
	LastIntent   string
}

// SocialIntentInput feeds the CREATE/EDIT classifier.
type SocialIntentInput struct {
	Message      string
	LastMessages []model.MessagePair
}

// PlatformInput feeds the platform classifier.
type PlatformInput struct {
	Message      string
	LastMessages []model.MessagePair
}

// SelectorInput feeds the post selector. History must be non-empty; the
// calling node short-circuits before the agent when there is nothing to
// select among.
type SelectorInput struct {
	Message      string
	LastMessages []model.MessagePair
	Posts        []model.SessionPost
}

// SelectionResult is the selector's verdict.
type SelectionResult struct {
	SelectedPostID   string
	Confidence       float64
	Reasoning        string
	Message          string
	SuggestedOptions []string
}

// CreateInput feeds post creation.
type CreateInput struct {
	Platform     model.Platform
	Article      *model.ArticlePost
	Preferences  string
	LastMessages []model.MessagePair
}

// EditInput feeds post editing.
type EditInput struct {
	Platform     model.Platform
	Article      *model.ArticlePost
	TargetPost   *model.SessionPost
	Instructions string
	LastMessages []model.MessagePair
}

// GenerationResult is the creation/edit output.
type GenerationResult struct {
	Message          string
	StructuredPost   *model.StructuredPost
	SuggestedOptions []string
}

// ReplyInput feeds the Q&A and general-support responders.
type ReplyInput struct {
	Message      string
	LastMessages []model.MessagePair
	Post         *model.ArticlePost
}

// ReplyResult is a plain conversational answer.
type ReplyResult struct {
	Response         string
	SuggestedOptions []string
}

// The interfaces the graph nodes depend on; tests substitute fakes.
type (
	IntentClassifier interface {
		ClassifyIntent(ctx context.Context, in IntentInput) (*model.IntentResult, error)
	}
	SocialIntentClassifier interface {
		ClassifySocialIntent(ctx context.Context, in SocialIntentInput) (*model.SocialIntentResult, error)
	}
	PlatformClassifier interface {
		ClassifyPlatform(ctx context.Context, in PlatformInput) (*model.PlatformResult, error)
	}
	PostSelector interface {
		SelectPost(ctx context.Context, in SelectorInput) (*SelectionResult, error)
	}
	PostCreator interface {
		CreatePost(ctx context.Context, in CreateInput) (*GenerationResult, error)
	}
	PostEditor interface {
		EditPost(ctx context.Context, in EditInput) (*GenerationResult, error)
	}
	QAResponder interface {
		AnswerQuestion(ctx context.Context, in ReplyInput) (*ReplyResult, error)
	}
	SupportResponder interface {
		Respond(ctx context.Context, in ReplyInput) (*ReplyResult, error)
	}
)

// Agents bundles one instance of every capability, built once at process
// start and injected into the graph assembly.
type Agents struct {
	Intent       IntentClassifier
	SocialIntent SocialIntentClassifier
	Platform     PlatformClassifier
	Selector     PostSelector
	Creator      PostCreator
	Editor       PostEditor
	QA           QAResponder
	Support      SupportResponder
}

// New constructs all capability agents over one shared model client.
func New(client *Client) *Agents {
	return &Agents{
		Intent:       &intentAgent{client: client},
		SocialIntent: &socialIntentAgent{client: client},
		Platform:     &platformAgent{client: client},
		Selector:     &selectorAgent{client: client},
		Creator:      &creatorAgent{client: client},
		Editor:       &editorAgent{client: client},
		QA:           &qaAgent{client: client},
		Support:      &supportAgent{client: client},
	}
}
