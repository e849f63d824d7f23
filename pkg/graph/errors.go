package graph

import (
	"fmt"
	"strings"
)

// DuplicateNodeError reports a node registered under a name that is already taken.
type DuplicateNodeError struct {
	Node string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("graph: node %q already registered", e.Node)
}

// GraphValidationError aggregates every structural problem found during Compile,
// not just the first one, so a single failed build surfaces all wiring mistakes.
type GraphValidationError struct {
	Problems []string
}

func (e *GraphValidationError) Error() string {
	return fmt.Sprintf("graph: invalid graph: %s", strings.Join(e.Problems, "; "))
}

// RoutingError reports a router returning a target that was not declared for
// its branch. Routing fails closed: an unlisted target aborts the run instead
// of silently terminating, so configuration bugs surface immediately.
type RoutingError struct {
	Node   string
	Target string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("graph: router at %q returned undeclared target %q", e.Node, e.Target)
}

// NodeExecutionError wraps an error (or recovered panic) raised inside a node.
// The run aborts immediately; retrying a whole turn is the caller's decision.
type NodeExecutionError struct {
	Node string
	Err  error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("graph: node %q failed: %v", e.Node, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}
