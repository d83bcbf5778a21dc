// Package chain contains the model-call stages of the ideation
// pipeline. Each stage owns its prompt, invokes a single client, and
// parses the response into typed output. Tier selection and
// orchestration live in the generation service.
package chain

import "fmt"

// ValidationError reports a structurally invalid model response that
// survived JSON recovery but violates a stage contract.
type ValidationError struct {
	Stage  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid model output: %s", e.Stage, e.Reason)
}
