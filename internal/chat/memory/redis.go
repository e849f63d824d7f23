// Package memory implements the session memory and social-post stores on
// Redis: exchanges as a JSON list per session, social posts as a JSON hash.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/feedcraft/server/internal/chat/model"
	errx "github.com/feedcraft/server/internal/core/error"
	logx "github.com/feedcraft/server/pkg/logger"
)

type RedisRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var (
	_ model.MemoryRepository     = (*RedisRepository)(nil)
	_ model.SocialPostRepository = (*RedisRepository)(nil)
)

func NewRedisRepository(rdb redis.Cmdable, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisRepository) messagesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}

func (r *RedisRepository) postsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:posts", sessionID)
}

// LoadRecentMessages returns at most limit of the newest exchanges, oldest
// first. A missing key is an empty history, not an error.
func (r *RedisRepository) LoadRecentMessages(ctx context.Context, sessionID string, limit int) ([]model.MessagePair, error) {
	if limit <= 0 {
		limit = model.MaxHistoryPairs
	}
	key := r.messagesKey(sessionID)

	rows, err := r.rdb.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.MessagePair{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load recent messages from redis")
		return nil, errx.WrapRedis(err)
	}

	pairs := make([]model.MessagePair, 0, len(rows))
	for i, row := range rows {
		var p model.MessagePair
		if err := json.Unmarshal([]byte(row), &p); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Int("index", i).Msg("failed to unmarshal message pair")
			return nil, fmt.Errorf("unmarshal message pair at index %d: %w", i, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// AppendExchange records a completed exchange and refreshes the session TTL.
func (r *RedisRepository) AppendExchange(ctx context.Context, sessionID string, pair model.MessagePair) error {
	b, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal message pair: %w", err)
	}
	key := r.messagesKey(sessionID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message pair to redis")
		return errx.WrapRedis(err)
	}
	return r.touch(ctx, key)
}

// LoadSessionPosts returns the session's social posts, oldest first.
func (r *RedisRepository) LoadSessionPosts(ctx context.Context, sessionID string) ([]model.SessionPost, error) {
	key := r.postsKey(sessionID)

	rows, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.SessionPost{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session posts from redis")
		return nil, errx.WrapRedis(err)
	}

	posts := make([]model.SessionPost, 0, len(rows))
	for id, row := range rows {
		var p model.SessionPost
		if err := json.Unmarshal([]byte(row), &p); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Str("post_id", id).Msg("failed to unmarshal session post")
			return nil, fmt.Errorf("unmarshal session post %s: %w", id, err)
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts, nil
}

// CreateSocialPost stores a new post under a fresh id and returns it.
func (r *RedisRepository) CreateSocialPost(ctx context.Context, sessionID, userID, articleID string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	now := time.Now().UTC()
	post := model.SessionPost{
		ID:             uuid.NewString(),
		Platform:       draft.Platform,
		Content:        draft.Content,
		CodeExamples:   draft.CodeExamples,
		VisualElements: draft.VisualElements,
		ArticleID:      articleID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := r.storePost(ctx, sessionID, &post); err != nil {
		return nil, err
	}

	logx.Debug().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("post_id", post.ID).
		Str("platform", string(post.Platform)).
		Msg("Social post created")
	return &post, nil
}

// UpdateSocialPost rewrites an existing post in place. A missing id maps to
// model.ErrSocialPostNotFound so callers can answer with a retry prompt.
func (r *RedisRepository) UpdateSocialPost(ctx context.Context, sessionID, socialPostID, userID string, draft model.SocialPostDraft) (*model.SessionPost, error) {
	key := r.postsKey(sessionID)

	row, err := r.rdb.HGet(ctx, key, socialPostID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, model.ErrSocialPostNotFound
		}
		logx.Error().Err(err).Str("key", key).Str("post_id", socialPostID).Msg("failed to load social post from redis")
		return nil, errx.WrapRedis(err)
	}

	var post model.SessionPost
	if err := json.Unmarshal([]byte(row), &post); err != nil {
		return nil, fmt.Errorf("unmarshal session post %s: %w", socialPostID, err)
	}

	post.Content = draft.Content
	if draft.Platform != "" {
		post.Platform = draft.Platform
	}
	post.CodeExamples = draft.CodeExamples
	post.VisualElements = draft.VisualElements
	post.UpdatedAt = time.Now().UTC()

	if err := r.storePost(ctx, sessionID, &post); err != nil {
		return nil, err
	}

	logx.Debug().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("post_id", post.ID).
		Msg("Social post updated")
	return &post, nil
}

func (r *RedisRepository) storePost(ctx context.Context, sessionID string, post *model.SessionPost) error {
	b, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal session post: %w", err)
	}
	key := r.postsKey(sessionID)

	if err := r.rdb.HSet(ctx, key, post.ID, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store social post in redis")
		return errx.WrapRedis(err)
	}
	return r.touch(ctx, key)
}

// touch refreshes the TTL on a session key.
func (r *RedisRepository) touch(ctx context.Context, key string) error {
	if r.ttl <= 0 {
		return nil
	}
	ok, err := r.rdb.Expire(ctx, key, r.ttl).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
		return errx.WrapRedis(err)
	}
	if !ok {
		logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on session key")
	}
	return nil
}
