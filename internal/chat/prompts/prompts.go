// Package prompts holds the system prompts for every capability agent and the
// helpers that render per-turn user content (conversation window, article,
// candidate posts) into the tagged text layout the prompts expect.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/feedcraft/server/internal/chat/model"
)

//go:embed template/intent.txt
var intentSystem string

//go:embed template/social_intent.txt
var socialIntentSystem string

//go:embed template/platform.txt
var platformSystem string

//go:embed template/selector.txt
var selectorSystem string

//go:embed template/creator.txt
var creatorSystem string

//go:embed template/editor.txt
var editorSystem string

//go:embed template/qa.txt
var qaSystem string

//go:embed template/support.txt
var supportSystem string

// IntentSystem returns the intent-classifier system prompt.
func IntentSystem() string { return intentSystem }

// SocialIntentSystem returns the CREATE/EDIT classifier system prompt.
func SocialIntentSystem() string { return socialIntentSystem }

// PlatformSystem renders the platform-detection system prompt with the
// supported platform list.
func PlatformSystem() string {
	names := []string{
		string(model.PlatformTwitter),
		string(model.PlatformLinkedIn),
		string(model.PlatformFacebook),
		string(model.PlatformInstagram),
	}
	return strings.NewReplacer("{platforms}", strings.Join(names, ", ")).Replace(platformSystem)
}

// SelectorSystem returns the post-selector system prompt.
func SelectorSystem() string { return selectorSystem }

// CreatorSystem renders the post-creation system prompt for a platform.
func CreatorSystem(platform model.Platform) string {
	return strings.NewReplacer("{platform}", string(platform)).Replace(creatorSystem)
}

// EditorSystem renders the post-editing system prompt for a platform.
func EditorSystem(platform model.Platform) string {
	return strings.NewReplacer("{platform}", string(platform)).Replace(editorSystem)
}

// QASystem returns the article Q&A system prompt.
func QASystem() string { return qaSystem }

// SupportSystem returns the general-support system prompt.
func SupportSystem() string { return supportSystem }

// FormatHistory renders the bounded conversation window in the tagged layout
// the prompts expect. Empty history renders an empty context block.
func FormatHistory(pairs []model.MessagePair) string {
	var b strings.Builder
	b.WriteString("<conversation_context>\n")
	for _, p := range pairs {
		if p.UserMessage != "" {
			b.WriteString("UserMessage(" + p.UserMessage + ")\n")
		}
		if p.AIResponse != "" {
			b.WriteString("AssistantMessage(" + p.AIResponse + ")\n")
		}
	}
	b.WriteString("</conversation_context>")
	return b.String()
}

// FormatCurrentMessage wraps the message under analysis so it is unambiguous
// against the surrounding history.
func FormatCurrentMessage(message string) string {
	return "<current_message>\n" + message + "\n</current_message>"
}

// FormatArticle renders the article in context for generation and Q&A prompts.
func FormatArticle(post *model.ArticlePost) string {
	if post == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("<article>\n")
	if post.Title != "" {
		b.WriteString("Title: " + post.Title + "\n")
	}
	if body := post.Text(); body != "" && body != post.Title {
		b.WriteString(body + "\n")
	}
	b.WriteString("</article>")
	return b.String()
}

// FormatCandidatePosts renders the session's social posts as numbered
// candidates for the selector prompt.
func FormatCandidatePosts(posts []model.SessionPost) string {
	var b strings.Builder
	b.WriteString("<candidate_posts>\n")
	for i, p := range posts {
		b.WriteString(fmt.Sprintf("%d. id=%s platform=%s\n%s\n", i+1, p.ID, p.Platform, p.Content))
	}
	b.WriteString("</candidate_posts>")
	return b.String()
}

// FormatTargetPost renders the post being edited for the editor prompt.
func FormatTargetPost(post *model.SessionPost) string {
	if post == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("<target_post>\n")
	b.WriteString("id: " + post.ID + "\n")
	b.WriteString("platform: " + string(post.Platform) + "\n")
	b.WriteString(post.Content + "\n")
	b.WriteString("</target_post>")
	return b.String()
}
