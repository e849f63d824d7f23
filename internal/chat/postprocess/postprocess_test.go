package postprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedcraft/server/internal/chat/model"
)

type fakePostRepo struct {
	created *model.SocialPostDraft
	updated *model.SocialPostDraft

	createdSessionID string
	updatedPostID    string
	err              error
}

func (f *fakePostRepo) CreateSocialPost(_ context.Context, sessionID, _, _ string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &draft
	f.createdSessionID = sessionID
	return &model.SessionPost{ID: "new-post", Platform: draft.Platform, Content: draft.Content}, nil
}

func (f *fakePostRepo) UpdateSocialPost(_ context.Context, _, socialPostID, _ string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = &draft
	f.updatedPostID = socialPostID
	return &model.SessionPost{ID: socialPostID, Platform: draft.Platform, Content: draft.Content}, nil
}

func socialState() model.ConversationState {
	return model.ConversationState{
		SessionID:      "s1",
		Response:       "Here's your draft.",
		IsSocialPost:   true,
		StructuredPost: &model.StructuredPost{PostContent: "A post about AI"},
		PlatformResult: &model.PlatformResult{Platform: model.PlatformLinkedIn},
	}
}

// Every terminal state maps to exactly one outcome.
func TestClassifyIsExhaustive(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*model.ConversationState)
		want Outcome
	}{
		{"plain reply", func(s *model.ConversationState) {
			s.IsSocialPost = false
			s.StructuredPost = nil
		}, OutcomePassthrough},
		{"flag without payload", func(s *model.ConversationState) {
			s.StructuredPost = nil
		}, OutcomePassthrough},
		{"payload without flag", func(s *model.ConversationState) {
			s.IsSocialPost = false
		}, OutcomePassthrough},
		{"create with known platform", func(s *model.ConversationState) {}, OutcomeCreateSocialPost},
		{"create with unknown platform", func(s *model.ConversationState) {
			s.PlatformResult = &model.PlatformResult{Platform: "myspace"}
		}, OutcomePassthrough},
		{"create with no platform result", func(s *model.ConversationState) {
			s.PlatformResult = nil
		}, OutcomePassthrough},
		{"edit", func(s *model.ConversationState) {
			s.EditingSocialPostID = "p1"
		}, OutcomeEditSocialPost},
		{"edit wins over platform", func(s *model.ConversationState) {
			s.EditingSocialPostID = "p1"
			s.PlatformResult = &model.PlatformResult{Platform: model.PlatformTwitter}
		}, OutcomeEditSocialPost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := socialState()
			tc.mut(&s)
			assert.Equal(t, tc.want, Classify(s))
		})
	}
}

func TestProcessCreatePersistsAndEnvelopes(t *testing.T) {
	repo := &fakePostRepo{}
	m := NewManager(repo)

	s := socialState()
	s.SuggestedOptions = []string{"Make it shorter"}

	env, err := m.Process(context.Background(), Input{
		Result: s, SessionID: "s1", UserID: "u1", ArticleID: "a1",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, "s1", repo.createdSessionID)
	assert.Equal(t, model.PlatformLinkedIn, repo.created.Platform)
	assert.Equal(t, "A post about AI", repo.created.Content)

	assert.Equal(t, "new-post", env.SocialPostID)
	assert.True(t, env.IsSocialPost)
	assert.Equal(t, "Here's your draft.", env.Response)
	assert.Equal(t, []string{"Make it shorter"}, env.SuggestedOptions)
	require.NotNil(t, env.StructuredPost)
}

func TestProcessEditPersistsWithTargetPlatform(t *testing.T) {
	repo := &fakePostRepo{}
	m := NewManager(repo)

	s := socialState()
	s.EditingSocialPostID = "p1"
	s.SocialPostsHistory = []model.SessionPost{
		{ID: "p1", Platform: model.PlatformTwitter, Content: "old tweet"},
	}
	s.StructuredPost = &model.StructuredPost{PostContent: "new tweet"}

	env, err := m.Process(context.Background(), Input{
		Result: s, SessionID: "s1", UserID: "u1",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "p1", repo.updatedPostID)
	assert.Equal(t, model.PlatformTwitter, repo.updated.Platform)
	assert.Equal(t, "new tweet", repo.updated.Content)
	assert.Equal(t, "p1", env.SocialPostID)
	assert.True(t, env.IsSocialPost)
}

func TestProcessPassthroughIsPureAndIdempotent(t *testing.T) {
	repo := &fakePostRepo{err: errors.New("repo must not be touched")}
	m := NewManager(repo)

	s := model.ConversationState{
		Response:         "It's about AI trends.",
		SuggestedOptions: []string{"Summarize it"},
	}
	in := Input{Result: s, SessionID: "s1"}

	first, err := m.Process(context.Background(), in)
	require.NoError(t, err)
	second, err := m.Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.IsSocialPost)
	assert.Empty(t, first.SocialPostID)
	assert.Nil(t, repo.created)
	assert.Nil(t, repo.updated)
}

func TestProcessSurfacesRepositoryError(t *testing.T) {
	repo := &fakePostRepo{err: errors.New("redis down")}
	m := NewManager(repo)

	_, err := m.Process(context.Background(), Input{Result: socialState(), SessionID: "s1"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "persist new social post")
}

func TestNoProcessorFoundError(t *testing.T) {
	err := &NoProcessorFoundError{Outcome: Outcome(42)}
	assert.Contains(t, err.Error(), "outcome(42)")
	assert.Equal(t, "passthrough", OutcomePassthrough.String())
	assert.Equal(t, "create_social_post", OutcomeCreateSocialPost.String())
	assert.Equal(t, "edit_social_post", OutcomeEditSocialPost.String())
}
