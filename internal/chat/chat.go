// Package chat exposes the conversational turn end-to-end: load session
// snapshots, run the conversation graph, post-process the terminal state,
// record the exchange.
package chat

import (
	"context"
	"fmt"

	chatgraph "github.com/feedcraft/server/internal/chat/graph"
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/internal/chat/postprocess"
	"github.com/feedcraft/server/pkg/graph"
	logx "github.com/feedcraft/server/pkg/logger"
)

// FallbackResponse is surfaced when a turn fails hard. The caller may retry
// the whole turn from the same input.
const FallbackResponse = "Sorry, something went wrong on my side. Please try that again."

// Service runs conversational turns against one compiled graph. Safe for
// concurrent use; all per-turn data lives in the state value.
type Service struct {
	runner    *chatgraph.Runnable
	memory    model.MemoryRepository
	processor *postprocess.Manager
}

// NewService wires the compiled graph, session memory and post-processor.
func NewService(runner *chatgraph.Runnable, memory model.MemoryRepository, processor *postprocess.Manager) *Service {
	return &Service{runner: runner, memory: memory, processor: processor}
}

// HandleInput is one user turn.
type HandleInput struct {
	SessionID  string
	UserID     string
	ThreadID   string
	Message    string
	Post       *model.ArticlePost
	LastIntent string
	Sink       graph.EventSink
}

// HandleMessage runs one turn. Session memory and social-post history are
// read once up front as read-only snapshots; the graph never writes back.
// All persistence happens after the graph: the post-processor stores social
// posts, then the finished exchange is appended to memory. A cancelled turn
// persists nothing. On a hard graph failure the fallback envelope is
// returned together with the error so the transport can both answer the user
// and decide about a retry.
func (s *Service) HandleMessage(ctx context.Context, in HandleInput) (*postprocess.Envelope, error) {
	pairs, err := s.memory.LoadRecentMessages(ctx, in.SessionID, model.MaxHistoryPairs)
	if err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}
	posts, err := s.memory.LoadSessionPosts(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session posts: %w", err)
	}

	state := model.NewConversationState(in.SessionID, in.UserID, in.Message, pairs, posts, in.Post, in.LastIntent)
	ec := &graph.ExecContext{
		SessionID: in.SessionID,
		ThreadID:  in.ThreadID,
		Sink:      in.Sink,
	}

	final, err := s.runner.Invoke(ctx, state, ec)
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned turn: discard partial state, persist nothing.
			return nil, ctx.Err()
		}
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("Turn failed")
		return &postprocess.Envelope{Response: FallbackResponse}, err
	}

	articleID := ""
	if in.Post != nil {
		articleID = in.Post.ID
	}
	envelope, err := s.processor.Process(ctx, postprocess.Input{
		Result:    final,
		SessionID: in.SessionID,
		UserID:    in.UserID,
		ArticleID: articleID,
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("Post-processing failed")
		return &postprocess.Envelope{Response: FallbackResponse}, err
	}

	if err := s.memory.AppendExchange(ctx, in.SessionID, model.MessagePair{
		UserMessage: in.Message,
		AIResponse:  envelope.Response,
	}); err != nil {
		// The answer is already produced; losing one memory write must not
		// fail the turn.
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("Error saving exchange to memory")
	}

	return envelope, nil
}
