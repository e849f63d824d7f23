package model

import (
	"context"
	"errors"
	"time"
)

// ErrSocialPostNotFound is returned when an update targets a post id that is
// not stored for the session.
var ErrSocialPostNotFound = errors.New("social post not found")

// SessionPost is a social post generated or edited earlier in a session.
type SessionPost struct {
	ID             string    `json:"id"`
	Platform       Platform  `json:"platform"`
	Content        string    `json:"content"`
	CodeExamples   []string  `json:"code_examples,omitempty"`
	VisualElements []string  `json:"visual_elements,omitempty"`
	ArticleID      string    `json:"article_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SocialPostDraft carries the fields persisted when creating or updating a
// social post.
type SocialPostDraft struct {
	Content        string
	Platform       Platform
	CodeExamples   []string
	VisualElements []string
}

// MemoryRepository supplies the read-only snapshots a turn starts from and
// records the finished exchange. The graph itself never writes here.
type MemoryRepository interface {
	// LoadRecentMessages returns at most limit of the newest exchanges for the
	// session, oldest first.
	LoadRecentMessages(ctx context.Context, sessionID string, limit int) ([]MessagePair, error)

	// LoadSessionPosts returns the session's social posts, oldest first.
	LoadSessionPosts(ctx context.Context, sessionID string) ([]SessionPost, error)

	// AppendExchange records a completed user/assistant exchange.
	AppendExchange(ctx context.Context, sessionID string, pair MessagePair) error
}

// SocialPostRepository persists social posts. Used exclusively by the
// post-processing step after the graph completes, which confines write-side
// effects to one place.
type SocialPostRepository interface {
	CreateSocialPost(ctx context.Context, sessionID, userID, articleID string, draft SocialPostDraft) (*SessionPost, error)
	UpdateSocialPost(ctx context.Context, sessionID, socialPostID, userID string, draft SocialPostDraft) (*SessionPost, error)
}
