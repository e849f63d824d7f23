package model

// MaxHistoryPairs bounds the conversation window handed to every capability
// agent. Truncation happens exactly once, in NewConversationState; agents and
// nodes must treat LastMessages as already bounded.
const MaxHistoryPairs = 10

// IntentType classifies what the user wants this turn.
type IntentType string

const (
	IntentGeneral        IntentType = "GENERAL"
	IntentAskPost        IntentType = "ASK_POST"
	IntentReqSocialPost  IntentType = "REQ_SOCIAL_POST"
	IntentEditSocialPost IntentType = "EDIT_SOCIAL_POST"
	IntentClarify        IntentType = "CLARIFY_INTENT"
)

// SocialAction distinguishes creating a new social post from editing one.
type SocialAction string

const (
	SocialActionCreate SocialAction = "CREATE"
	SocialActionEdit   SocialAction = "EDIT"
)

// Platform is a supported social network target.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// KnownPlatform reports whether p is one of the supported targets.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn, PlatformFacebook, PlatformInstagram:
		return true
	}
	return false
}

// MessagePair is one prior exchange: what the user said and what we answered.
type MessagePair struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
}

// ArticlePost is the article currently in context, read-only within a turn.
type ArticlePost struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`
}

// Text returns the richest available body for the article: content, then
// summary, then title.
func (p *ArticlePost) Text() string {
	if p == nil {
		return ""
	}
	if p.Content != "" {
		return p.Content
	}
	if p.Summary != "" {
		return p.Summary
	}
	return p.Title
}

// IntentResult is the intent classifier's verdict for the current message.
type IntentResult struct {
	Type               IntentType `json:"type"`
	Confidence         float64    `json:"confidence"`
	Reasoning          string     `json:"reasoning"`
	ClarifyingQuestion string     `json:"clarifying_question,omitempty"`
}

// SocialIntentResult distinguishes CREATE from EDIT on the social path.
type SocialIntentResult struct {
	Action     SocialAction `json:"action"`
	Confidence float64      `json:"confidence"`
	Reasoning  string       `json:"reasoning"`
}

// PlatformResult is the platform classifier's verdict, including an optional
// clarification to surface when the platform is ambiguous.
type PlatformResult struct {
	Platform             Platform `json:"platform"`
	Confidence           float64  `json:"confidence"`
	NeedsClarification   bool     `json:"needs_clarification"`
	ClarificationMessage string   `json:"clarification_message,omitempty"`
	SuggestedOptions     []string `json:"suggested_options,omitempty"`
}

// StructuredPost is the generation/edit output for a social post.
type StructuredPost struct {
	PostContent    string   `json:"post_content"`
	CodeExamples   []string `json:"code_examples,omitempty"`
	VisualElements []string `json:"visual_elements,omitempty"`
}

// ConversationState is the per-turn state threaded through the conversation
// graph. A fresh value is built for every user message, flows through the
// graph exactly once, and is discarded after post-processing. Nodes return
// partial updates; MergeState folds them in monotonically, so fields written
// by an earlier node are never cleared by a later one.
type ConversationState struct {
	// Inputs, immutable within a turn.
	Message            string
	SessionID          string
	UserID             string
	LastMessages       []MessagePair
	LastIntent         string
	Post               *ArticlePost
	SocialPostsHistory []SessionPost

	// Classification results, each written once by its owning node.
	IntentResult        *IntentResult
	SocialIntentResult  *SocialIntentResult
	PlatformResult      *PlatformResult
	EditingSocialPostID string

	// Terminal outputs.
	StructuredPost   *StructuredPost
	Response         string
	SuggestedOptions []string
	IsSocialPost     bool
	Error            string
}

// NewConversationState builds the initial state for one turn. This is the
// single place the history window is enforced: callers may hand in any number
// of pairs, only the most recent MaxHistoryPairs survive.
func NewConversationState(sessionID, userID, message string, history []MessagePair, posts []SessionPost, article *ArticlePost, lastIntent string) ConversationState {
	if len(history) > MaxHistoryPairs {
		history = history[len(history)-MaxHistoryPairs:]
	}
	bounded := make([]MessagePair, len(history))
	copy(bounded, history)

	return ConversationState{
		Message:            message,
		SessionID:          sessionID,
		UserID:             userID,
		LastMessages:       bounded,
		LastIntent:         lastIntent,
		Post:               article,
		SocialPostsHistory: posts,
	}
}

// MergeState folds a node's partial update into the current state. Set fields
// of the update replace, zero fields persist; nothing is ever cleared, which
// is what routers downstream rely on.
func MergeState(cur, upd ConversationState) ConversationState {
	out := cur
	if upd.IntentResult != nil {
		out.IntentResult = upd.IntentResult
	}
	if upd.SocialIntentResult != nil {
		out.SocialIntentResult = upd.SocialIntentResult
	}
	if upd.PlatformResult != nil {
		out.PlatformResult = upd.PlatformResult
	}
	if upd.EditingSocialPostID != "" {
		out.EditingSocialPostID = upd.EditingSocialPostID
	}
	if upd.StructuredPost != nil {
		out.StructuredPost = upd.StructuredPost
	}
	if upd.Response != "" {
		out.Response = upd.Response
	}
	if len(upd.SuggestedOptions) > 0 {
		out.SuggestedOptions = upd.SuggestedOptions
	}
	if upd.IsSocialPost {
		out.IsSocialPost = true
	}
	if upd.Error != "" {
		out.Error = upd.Error
	}
	return out
}

// FindSessionPost returns the session post with the given id, or nil.
func (s *ConversationState) FindSessionPost(id string) *SessionPost {
	for i := range s.SocialPostsHistory {
		if s.SocialPostsHistory[i].ID == id {
			return &s.SocialPostsHistory[i]
		}
	}
	return nil
}
