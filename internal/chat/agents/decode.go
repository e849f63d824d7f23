package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// validatable lets each wire struct check its own structural invariants
// (enum membership, confidence ranges, required fields) after unmarshaling.
type validatable interface {
	validate() error
}

// decodeJSON unmarshals model output into T. Models occasionally wrap JSON in
// code fences or emit slightly broken JSON; fences are stripped and a repair
// pass is attempted before giving up. Output that unmarshals but fails
// validation is rejected the same way: a SchemaValidationError for the caller.
func decodeJSON[T validatable](agent, content string) (T, error) {
	var zero T

	raw := stripFences(content)
	if raw == "" {
		return zero, &SchemaValidationError{Agent: agent, Err: fmt.Errorf("empty model output")}
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(raw)
		if rerr != nil {
			return zero, &SchemaValidationError{Agent: agent, Err: fmt.Errorf("unmarshal: %w", err)}
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return zero, &SchemaValidationError{Agent: agent, Err: fmt.Errorf("unmarshal repaired: %w", err)}
		}
	}

	if err := out.validate(); err != nil {
		return zero, &SchemaValidationError{Agent: agent, Err: err}
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func confidenceInRange(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", v)
	}
	return nil
}
