// Package graph assembles the conversation graph: one topology routing each
// user turn between Q&A, general support, platform detection, social-post
// creation and social-post editing.
package graph

import (
	"fmt"

	"github.com/feedcraft/server/internal/chat/agents"
	"github.com/feedcraft/server/internal/chat/model"
	"github.com/feedcraft/server/pkg/graph"
	logx "github.com/feedcraft/server/pkg/logger"
)

// Runnable is the compiled conversation graph.
type Runnable = graph.Runnable[model.ConversationState]

// Build wires nodes, edges and branches into the conversation topology and
// compiles it. All agents are injected; the compiled graph holds no per-run
// state and is shared across concurrent turns.
func Build(a *agents.Agents) (*Runnable, error) {
	if a == nil {
		return nil, fmt.Errorf("agents are nil")
	}

	g := graph.New(model.MergeState)

	nodes := map[string]NodeFunc{
		NodeDetectIntent:      NewDetectIntentNode(a.Intent),
		NodeSupport:           NewSupportNode(a.Support),
		NodePostQA:            NewPostQANode(a.QA),
		NodeSocialIntent:      NewSocialIntentNode(a.SocialIntent),
		NodePlatformDetection: NewPlatformDetectionNode(a.Platform),
		NodePostSelector:      NewPostSelectorNode(a.Selector),
		NodeSocialPostCreate:  NewSocialPostCreateNode(a.Creator),
		NodeSocialPostEdit:    NewSocialPostEditNode(a.Editor),
	}
	for name, fn := range nodes {
		if err := g.AddNode(name, fn); err != nil {
			return nil, err
		}
	}

	g.SetEntryPoint(NodeDetectIntent)

	g.AddConditionalEdge(NodeDetectIntent, IntentRouter,
		NodeSupport, NodePostQA, NodeSocialIntent, graph.End)
	g.AddConditionalEdge(NodeSocialIntent, SocialIntentRouter,
		NodePlatformDetection, NodePostSelector, graph.End)
	g.AddConditionalEdge(NodePlatformDetection, PlatformRouter,
		NodeSocialPostCreate, graph.End)
	g.AddConditionalEdge(NodePostSelector, SelectorRouter,
		NodeSocialPostEdit, graph.End)

	g.AddEdge(NodeSupport, graph.End)
	g.AddEdge(NodePostQA, graph.End)
	g.AddEdge(NodeSocialPostCreate, graph.End)
	g.AddEdge(NodeSocialPostEdit, graph.End)

	runnable, err := g.Compile()
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling conversation graph")
		return nil, err
	}

	logx.Debug().Msg("Conversation graph compiled successfully")
	return runnable, nil
}
