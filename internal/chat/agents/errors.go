package agents

import "fmt"

// SchemaValidationError reports model output that could not be coerced into
// the agent's declared result shape. The output is never partially trusted;
// the turn fails and the caller decides whether to retry it.
type SchemaValidationError struct {
	Agent string
	Err   error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("agents: %s returned output violating its schema: %v", e.Agent, e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}
