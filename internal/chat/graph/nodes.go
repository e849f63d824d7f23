package graph

import (
	"context"

	"github.com/feedcraft/server/internal/chat/agents"
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/pkg/graph"
	logx "github.com/feedcraft/server/pkg/logger"
)

// Node names.
const (
	NodeDetectIntent      = "detect_intent"
	NodeSupport           = "support"
	NodePostQA            = "post_qa"
	NodeSocialIntent      = "social_intent"
	NodePlatformDetection = "platform_detection"
	NodePostSelector      = "post_selector"
	NodeSocialPostCreate  = "social_post_create"
	NodeSocialPostEdit    = "social_post_edit"
)

// EventProgress is the event name used for streaming progress tokens.
const EventProgress = "progress"

// NodeFunc is the conversation-state specialization of the engine node type.
type NodeFunc = graph.NodeFunc[model.ConversationState]

// NewDetectIntentNode creates the entry node: classify the user's intent and,
// for CLARIFY_INTENT, surface the clarifying question as the terminal response.
func NewDetectIntentNode(classifier agents.IntentClassifier) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		ec.Emit(EventProgress, "Detecting your intent...")

		res, err := classifier.ClassifyIntent(ctx, agents.IntentInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
			LastIntent:   s.LastIntent,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", string(res.Type)).
			Float64("confidence", res.Confidence).
			Msg("Intent detected")

		upd := model.ConversationState{IntentResult: res}
		if res.Type == model.IntentClarify {
			upd.Response = res.ClarifyingQuestion
			if upd.Response == "" {
				upd.Response = "Could you tell me a bit more about what you'd like to do with this article?"
			}
		}
		return upd, nil
	}
}

// NewSocialIntentNode creates the CREATE/EDIT decision node. With no prior
// social posts in the session, CREATE is the only valid action; the node
// enforces that itself instead of trusting the classifier, and skips the
// model call entirely.
func NewSocialIntentNode(classifier agents.SocialIntentClassifier) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		ec.Emit(EventProgress, "Working out what you want to do with a social post...")

		if len(s.SocialPostsHistory) == 0 {
			logx.Debug().
				Str("session_id", s.SessionID).
				Msg("No session posts; forcing CREATE")
			return model.ConversationState{
				SocialIntentResult: &model.SocialIntentResult{
					Action:     model.SocialActionCreate,
					Confidence: 1,
					Reasoning:  "no prior social posts in this session",
				},
			}, nil
		}

		res, err := classifier.ClassifySocialIntent(ctx, agents.SocialIntentInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("action", string(res.Action)).
			Float64("confidence", res.Confidence).
			Msg("Social intent classified")

		return model.ConversationState{SocialIntentResult: res}, nil
	}
}

// NewPlatformDetectionNode creates the platform-detection node. When the
// platform is ambiguous the clarification travels in Response and
// SuggestedOptions; routing still proceeds and the create node terminates
// gracefully without generating.
func NewPlatformDetectionNode(classifier agents.PlatformClassifier) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		ec.Emit(EventProgress, "Figuring out which platform you want...")

		res, err := classifier.ClassifyPlatform(ctx, agents.PlatformInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("platform", string(res.Platform)).
			Bool("needs_clarification", res.NeedsClarification).
			Msg("Platform detected")

		upd := model.ConversationState{PlatformResult: res}
		if res.NeedsClarification {
			upd.Response = res.ClarificationMessage
			if upd.Response == "" {
				upd.Response = "Which platform should this post target?"
			}
			upd.SuggestedOptions = res.SuggestedOptions
		}
		return upd, nil
	}
}

// NewPostSelectorNode creates the node resolving which session post the user
// wants to edit. Empty history short-circuits before any agent call; a single
// candidate is auto-selected.
func NewPostSelectorNode(selector agents.PostSelector) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		ec.Emit(EventProgress, "Looking for the post you mean...")

		if len(s.SocialPostsHistory) == 0 {
			logx.Debug().Str("session_id", s.SessionID).Msg("No session posts to edit")
			return model.ConversationState{
				Error:    "no social posts in session",
				Response: "No social posts found in this session. Ask me to create one first and I can edit it afterwards.",
			}, nil
		}

		if len(s.SocialPostsHistory) == 1 {
			only := s.SocialPostsHistory[0]
			logx.Debug().
				Str("session_id", s.SessionID).
				Str("post_id", only.ID).
				Msg("Single candidate; auto-selecting")
			return model.ConversationState{EditingSocialPostID: only.ID}, nil
		}

		res, err := selector.SelectPost(ctx, agents.SelectorInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
			Posts:        s.SocialPostsHistory,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		if res.SelectedPostID == "" {
			return model.ConversationState{
				Response:         res.Message,
				SuggestedOptions: res.SuggestedOptions,
			}, nil
		}
		if s.FindSessionPost(res.SelectedPostID) == nil {
			logx.Warn().
				Str("session_id", s.SessionID).
				Str("post_id", res.SelectedPostID).
				Msg("Selector returned an id not present in session history")
			return model.ConversationState{
				Error:    "selected post not found",
				Response: "I couldn't match that to one of your posts. Could you point me at it again, for example by platform or by what it says?",
			}, nil
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("post_id", res.SelectedPostID).
			Float64("confidence", res.Confidence).
			Msg("Post selected for editing")

		return model.ConversationState{EditingSocialPostID: res.SelectedPostID}, nil
	}
}

// NewSocialPostCreateNode creates the generation node. Missing preconditions
// (platform still unresolved, no article in context) end the turn with a
// user-facing message instead of an exception.
func NewSocialPostCreateNode(creator agents.PostCreator) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		// Platform still ambiguous: the clarification from the previous node is
		// already in Response/SuggestedOptions, so just terminate.
		if s.PlatformResult == nil || s.PlatformResult.NeedsClarification || !model.KnownPlatform(s.PlatformResult.Platform) {
			logx.Debug().Str("session_id", s.SessionID).Msg("Platform unresolved; skipping generation")
			return model.ConversationState{}, nil
		}

		if s.Post == nil || s.Post.Text() == "" {
			return model.ConversationState{
				Error:    "no article in context",
				Response: "I don't have an article to write from. Open an article and ask me again.",
			}, nil
		}

		ec.Emit(EventProgress, "Writing your "+string(s.PlatformResult.Platform)+" post...")

		res, err := creator.CreatePost(ctx, agents.CreateInput{
			Platform:     s.PlatformResult.Platform,
			Article:      s.Post,
			Preferences:  s.Message,
			LastMessages: s.LastMessages,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("platform", string(s.PlatformResult.Platform)).
			Msg("Social post generated")

		upd := model.ConversationState{
			StructuredPost:   res.StructuredPost,
			IsSocialPost:     true,
			SuggestedOptions: res.SuggestedOptions,
			Response:         res.Message,
		}
		if upd.Response == "" {
			upd.Response = "Here's a draft for " + string(s.PlatformResult.Platform) + "."
		}
		return upd, nil
	}
}

// NewSocialPostEditNode creates the edit node. The routing guarantees an
// EditingSocialPostID, but its membership in the session history is verified
// again here; a stale id is a recoverable gap, not a crash.
func NewSocialPostEditNode(editor agents.PostEditor) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		target := s.FindSessionPost(s.EditingSocialPostID)
		if target == nil {
			logx.Warn().
				Str("session_id", s.SessionID).
				Str("post_id", s.EditingSocialPostID).
				Msg("Editing target missing from session history")
			return model.ConversationState{
				Error:    "editing target not found",
				Response: "I lost track of the post you wanted to edit. Could you try again?",
			}, nil
		}

		ec.Emit(EventProgress, "Editing your "+string(target.Platform)+" post...")

		res, err := editor.EditPost(ctx, agents.EditInput{
			Platform:     target.Platform,
			Article:      s.Post,
			TargetPost:   target,
			Instructions: s.Message,
			LastMessages: s.LastMessages,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		logx.Debug().
			Str("session_id", s.SessionID).
			Str("post_id", target.ID).
			Msg("Social post edited")

		upd := model.ConversationState{
			StructuredPost:   res.StructuredPost,
			IsSocialPost:     true,
			SuggestedOptions: res.SuggestedOptions,
			Response:         res.Message,
		}
		if upd.Response == "" {
			upd.Response = "Done, I've updated the post."
		}
		return upd, nil
	}
}

// NewPostQANode creates the article Q&A node.
func NewPostQANode(responder agents.QAResponder) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		if s.Post == nil || s.Post.Text() == "" {
			return model.ConversationState{
				Error:    "no article in context",
				Response: "There's no article in context to answer from. Open one and ask me again.",
			}, nil
		}

		ec.Emit(EventProgress, "Reading the article for you...")

		res, err := responder.AnswerQuestion(ctx, agents.ReplyInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
			Post:         s.Post,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		return model.ConversationState{
			Response:         res.Response,
			SuggestedOptions: res.SuggestedOptions,
		}, nil
	}
}

// NewSupportNode creates the general-support node.
func NewSupportNode(responder agents.SupportResponder) NodeFunc {
	return func(ctx context.Context, s model.ConversationState, ec *graph.ExecContext) (model.ConversationState, error) {
		ec.Emit(EventProgress, "Thinking about your question...")

		res, err := responder.Respond(ctx, agents.ReplyInput{
			Message:      s.Message,
			LastMessages: s.LastMessages,
			Post:         s.Post,
		})
		if err != nil {
			return model.ConversationState{}, err
		}

		return model.ConversationState{
			Response:         res.Response,
			SuggestedOptions: res.SuggestedOptions,
		}, nil
	}
}
