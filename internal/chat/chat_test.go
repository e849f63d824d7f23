package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedcraft/server/internal/chat/agents"
	chatgraph "github.com/feedcraft/server/internal/chat/graph"
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/postprocess"
)

type fakeMemory struct {
	pairs []model.MessagePair
	posts []model.SessionPost

	appended  []model.MessagePair
	loadErr   error
	appendErr error
}

func (f *fakeMemory) LoadRecentMessages(_ context.Context, _ string, limit int) ([]model.MessagePair, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if len(f.pairs) > limit {
		return f.pairs[len(f.pairs)-limit:], nil
	}
	return f.pairs, nil
}

func (f *fakeMemory) LoadSessionPosts(_ context.Context, _ string) ([]model.SessionPost, error) {
	return f.posts, nil
}

func (f *fakeMemory) AppendExchange(_ context.Context, _ string, pair model.MessagePair) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, pair)
	return nil
}

type fakePosts struct {
	created int
}

func (f *fakePosts) CreateSocialPost(_ context.Context, _, _, _ string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	f.created++
	return &model.SessionPost{ID: "new-post", Platform: draft.Platform, Content: draft.Content}, nil
}

func (f *fakePosts) UpdateSocialPost(_ context.Context, _, socialPostID, _ string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	return &model.SessionPost{ID: socialPostID, Platform: draft.Platform, Content: draft.Content}, nil
}

// turnAgents answers every classification with fixed results; err, when set,
// is returned from intent detection to simulate a hard model failure.
type turnAgents struct {
	intent   *model.IntentResult
	platform *model.PlatformResult
	reply    *agents.ReplyResult
	post     *agents.GenerationResult
	err      error
}

func (a *turnAgents) ClassifyIntent(_ context.Context, _ agents.IntentInput) (*model.IntentResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.intent, nil
}

func (a *turnAgents) ClassifySocialIntent(_ context.Context, _ agents.SocialIntentInput) (*model.SocialIntentResult, error) {
	return &model.SocialIntentResult{Action: model.SocialActionCreate, Confidence: 1}, nil
}

func (a *turnAgents) ClassifyPlatform(_ context.Context, _ agents.PlatformInput) (*model.PlatformResult, error) {
	return a.platform, nil
}

func (a *turnAgents) SelectPost(_ context.Context, _ agents.SelectorInput) (*agents.SelectionResult, error) {
	return &agents.SelectionResult{}, nil
}

func (a *turnAgents) CreatePost(_ context.Context, _ agents.CreateInput) (*agents.GenerationResult, error) {
	return a.post, nil
}

func (a *turnAgents) EditPost(_ context.Context, _ agents.EditInput) (*agents.GenerationResult, error) {
	return a.post, nil
}

func (a *turnAgents) AnswerQuestion(_ context.Context, _ agents.ReplyInput) (*agents.ReplyResult, error) {
	return a.reply, nil
}

func (a *turnAgents) Respond(_ context.Context, _ agents.ReplyInput) (*agents.ReplyResult, error) {
	return a.reply, nil
}

func newTurnService(t *testing.T, a *turnAgents, mem *fakeMemory, posts *fakePosts) *Service {
	t.Helper()
	runner, err := chatgraph.Build(&agents.Agents{
		Intent: a, SocialIntent: a, Platform: a, Selector: a,
		Creator: a, Editor: a, QA: a, Support: a,
	})
	require.NoError(t, err)
	return NewService(runner, mem, postprocess.NewManager(posts))
}

func TestHandleMessageGeneralTurn(t *testing.T) {
	a := &turnAgents{
		intent: &model.IntentResult{Type: model.IntentGeneral, Confidence: 0.9},
		reply:  &agents.ReplyResult{Response: "Hello! How can I help?"},
	}
	mem := &fakeMemory{}
	svc := newTurnService(t, a, mem, &fakePosts{})

	env, err := svc.HandleMessage(context.Background(), HandleInput{
		SessionID: "s1", UserID: "u1", Message: "hi there",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello! How can I help?", env.Response)
	assert.False(t, env.IsSocialPost)

	require.Len(t, mem.appended, 1)
	assert.Equal(t, "hi there", mem.appended[0].UserMessage)
	assert.Equal(t, "Hello! How can I help?", mem.appended[0].AIResponse)
}

func TestHandleMessageCreateTurnPersistsPost(t *testing.T) {
	a := &turnAgents{
		intent:   &model.IntentResult{Type: model.IntentReqSocialPost, Confidence: 0.9},
		platform: &model.PlatformResult{Platform: model.PlatformLinkedIn, Confidence: 0.9},
		post: &agents.GenerationResult{
			Message:        "Here you go.",
			StructuredPost: &model.StructuredPost{PostContent: "A LinkedIn post"},
		},
	}
	mem := &fakeMemory{}
	posts := &fakePosts{}
	svc := newTurnService(t, a, mem, posts)

	env, err := svc.HandleMessage(context.Background(), HandleInput{
		SessionID: "s1", UserID: "u1",
		Message: "post this to linkedin",
		Post:    &model.ArticlePost{ID: "a1", Title: "AI", Content: "body"},
	})
	require.NoError(t, err)

	assert.True(t, env.IsSocialPost)
	assert.Equal(t, "new-post", env.SocialPostID)
	assert.Equal(t, 1, posts.created)
	require.Len(t, mem.appended, 1)
}

func TestHandleMessageGraphFailureReturnsFallback(t *testing.T) {
	a := &turnAgents{err: errors.New("model unavailable")}
	mem := &fakeMemory{}
	svc := newTurnService(t, a, mem, &fakePosts{})

	env, err := svc.HandleMessage(context.Background(), HandleInput{
		SessionID: "s1", Message: "hi",
	})
	require.Error(t, err)
	require.NotNil(t, env)
	assert.Equal(t, FallbackResponse, env.Response)
	assert.Empty(t, mem.appended) // failed turns are not recorded
}

func TestHandleMessageCancelledTurnPersistsNothing(t *testing.T) {
	a := &turnAgents{
		intent: &model.IntentResult{Type: model.IntentGeneral, Confidence: 0.9},
		reply:  &agents.ReplyResult{Response: "hi"},
	}
	mem := &fakeMemory{}
	svc := newTurnService(t, a, mem, &fakePosts{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env, err := svc.HandleMessage(ctx, HandleInput{SessionID: "s1", Message: "hi"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, env)
	assert.Empty(t, mem.appended)
}

func TestHandleMessageMemoryLoadFailureAborts(t *testing.T) {
	a := &turnAgents{}
	mem := &fakeMemory{loadErr: errors.New("redis down")}
	svc := newTurnService(t, a, mem, &fakePosts{})

	env, err := svc.HandleMessage(context.Background(), HandleInput{SessionID: "s1", Message: "hi"})
	require.Error(t, err)
	assert.Nil(t, env)
}

func TestHandleMessageAppendFailureDoesNotFailTurn(t *testing.T) {
	a := &turnAgents{
		intent: &model.IntentResult{Type: model.IntentGeneral, Confidence: 0.9},
		reply:  &agents.ReplyResult{Response: "hello"},
	}
	mem := &fakeMemory{appendErr: errors.New("redis down")}
	svc := newTurnService(t, a, mem, &fakePosts{})

	env, err := svc.HandleMessage(context.Background(), HandleInput{SessionID: "s1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", env.Response)
}
