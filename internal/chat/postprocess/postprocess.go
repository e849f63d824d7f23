// Package postprocess turns a terminal conversation state into the one
// required side effect and a uniform result envelope. Instead of an ordered
// handler chain with canHandle probes, the terminal state is classified once
// into an exhaustive outcome and dispatched with a switch, so exactly one
// branch runs and nothing depends on registration order.
package postprocess

import (
	"context"
	"fmt"

	"github.com/feedcraft/server/internal/chat/model"
	logx "github.com/feedcraft/server/pkg/logger"
)

// Outcome discriminates what the terminal state asks for.
type Outcome int

const (
	OutcomePassthrough Outcome = iota
	OutcomeCreateSocialPost
	OutcomeEditSocialPost
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassthrough:
		return "passthrough"
	case OutcomeCreateSocialPost:
		return "create_social_post"
	case OutcomeEditSocialPost:
		return "edit_social_post"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// NoProcessorFoundError indicates Classify produced an outcome Process has no
// branch for. That is a programming error, never a per-request condition.
type NoProcessorFoundError struct {
	Outcome Outcome
}

func (e *NoProcessorFoundError) Error() string {
	return fmt.Sprintf("postprocess: no processor for outcome %s", e.Outcome)
}

// Classify maps a terminal state to its outcome. An edit is a social post
// with a resolved editing target; a create is a social post with a known
// platform and no editing target; everything else passes through.
func Classify(s model.ConversationState) Outcome {
	if !s.IsSocialPost || s.StructuredPost == nil {
		return OutcomePassthrough
	}
	if s.EditingSocialPostID != "" {
		return OutcomeEditSocialPost
	}
	if s.PlatformResult != nil && model.KnownPlatform(s.PlatformResult.Platform) {
		return OutcomeCreateSocialPost
	}
	return OutcomePassthrough
}

// Envelope is the uniform result returned to the transport layer.
type Envelope struct {
	SocialPostID     string                `json:"social_post_id,omitempty"`
	Response         string                `json:"response"`
	SuggestedOptions []string              `json:"suggested_options,omitempty"`
	IsSocialPost     bool                  `json:"is_social_post"`
	StructuredPost   *model.StructuredPost `json:"structured_post,omitempty"`
}

// Input carries the terminal state plus the identity needed for persistence.
type Input struct {
	Result    model.ConversationState
	SessionID string
	UserID    string
	ArticleID string
}

// Manager performs the one side effect a terminal state requires.
type Manager struct {
	posts model.SocialPostRepository
}

// NewManager builds a Manager over the social-post repository.
func NewManager(posts model.SocialPostRepository) *Manager {
	return &Manager{posts: posts}
}

// Process dispatches on the classified outcome. Exactly one branch runs per
// terminal state; persistence happens here and nowhere else.
func (m *Manager) Process(ctx context.Context, in Input) (*Envelope, error) {
	outcome := Classify(in.Result)
	logx.Debug().
		Str("session_id", in.SessionID).
		Str("outcome", outcome.String()).
		Msg("Post-processing terminal state")

	switch outcome {
	case OutcomeEditSocialPost:
		return m.editPost(ctx, in)
	case OutcomeCreateSocialPost:
		return m.createPost(ctx, in)
	case OutcomePassthrough:
		return passthrough(in.Result), nil
	default:
		return nil, &NoProcessorFoundError{Outcome: outcome}
	}
}

func (m *Manager) createPost(ctx context.Context, in Input) (*Envelope, error) {
	s := in.Result
	created, err := m.posts.CreateSocialPost(ctx, in.SessionID, in.UserID, in.ArticleID, model.SocialPostDraft{
		Content:        s.StructuredPost.PostContent,
		Platform:       s.PlatformResult.Platform,
		CodeExamples:   s.StructuredPost.CodeExamples,
		VisualElements: s.StructuredPost.VisualElements,
	})
	if err != nil {
		return nil, fmt.Errorf("persist new social post: %w", err)
	}

	return &Envelope{
		SocialPostID:     created.ID,
		Response:         s.Response,
		SuggestedOptions: s.SuggestedOptions,
		IsSocialPost:     true,
		StructuredPost:   s.StructuredPost,
	}, nil
}

func (m *Manager) editPost(ctx context.Context, in Input) (*Envelope, error) {
	s := in.Result
	platform := model.Platform("")
	if target := s.FindSessionPost(s.EditingSocialPostID); target != nil {
		platform = target.Platform
	}

	updated, err := m.posts.UpdateSocialPost(ctx, in.SessionID, s.EditingSocialPostID, in.UserID, model.SocialPostDraft{
		Content:        s.StructuredPost.PostContent,
		Platform:       platform,
		CodeExamples:   s.StructuredPost.CodeExamples,
		VisualElements: s.StructuredPost.VisualElements,
	})
	if err != nil {
		return nil, fmt.Errorf("persist edited social post: %w", err)
	}

	return &Envelope{
		SocialPostID:     updated.ID,
		Response:         s.Response,
		SuggestedOptions: s.SuggestedOptions,
		IsSocialPost:     true,
		StructuredPost:   s.StructuredPost,
	}, nil
}

// passthrough copies the conversational reply through untouched. Pure, so
// applying it twice yields the same envelope.
func passthrough(s model.ConversationState) *Envelope {
	return &Envelope{
		Response:         s.Response,
		SuggestedOptions: s.SuggestedOptions,
		IsSocialPost:     false,
	}
}
