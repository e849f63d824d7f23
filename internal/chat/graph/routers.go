package graph

import (
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/pkg/graph"
	logx "github.com/feedcraft/server/pkg/logger"
)

// Routers are pure: they read state and return the next node name or
// graph.End. All targets they can return are declared on their branch, so an
// unexpected value fails the run instead of silently terminating.

// IntentRouter routes on the detected intent. Both social intents funnel into
// the social-intent node, which distinguishes CREATE from EDIT itself.
func IntentRouter(s model.ConversationState) string {
	if s.IntentResult == nil {
		logx.Warn().Str("session_id", s.SessionID).Msg("No intent result; ending turn")
		return graph.End
	}
	switch s.IntentResult.Type {
	case model.IntentGeneral:
		return NodeSupport
	case model.IntentAskPost:
		return NodePostQA
	case model.IntentReqSocialPost, model.IntentEditSocialPost:
		return NodeSocialIntent
	case model.IntentClarify:
		return graph.End
	default:
		logx.Warn().
			Str("session_id", s.SessionID).
			Str("intent", string(s.IntentResult.Type)).
			Msg("Unrecognized intent; ending turn")
		return graph.End
	}
}

// SocialIntentRouter routes CREATE to platform detection and EDIT to the
// post selector.
func SocialIntentRouter(s model.ConversationState) string {
	if s.SocialIntentResult == nil {
		logx.Warn().Str("session_id", s.SessionID).Msg("No social intent result; ending turn")
		return graph.End
	}
	switch s.SocialIntentResult.Action {
	case model.SocialActionCreate:
		return NodePlatformDetection
	case model.SocialActionEdit:
		return NodePostSelector
	default:
		return graph.End
	}
}

// PlatformRouter always proceeds to creation once a platform result exists;
// the create node handles the still-ambiguous case gracefully.
func PlatformRouter(s model.ConversationState) string {
	if s.PlatformResult == nil {
		logx.Warn().Str("session_id", s.SessionID).Msg("No platform result; ending turn")
		return graph.End
	}
	return NodeSocialPostCreate
}

// SelectorRouter proceeds to editing only when a target post was resolved;
// otherwise the selection prompt already sits in Response.
func SelectorRouter(s model.ConversationState) string {
	if s.EditingSocialPostID == "" {
		return graph.End
	}
	return NodeSocialPostEdit
}
