package agent

import "fmt"

// MissingStatusError reports a model response that carried no STATUS section.
// Fatal to the request: without a status the loop cannot decide how to
// proceed.
type MissingStatusError struct{}

func (e *MissingStatusError) Error() string {
	return "No STATUS set after processing LLM response."
}

// IterationOverrunError reports that the iteration budget was exhausted
// before the model declared a terminal status.
type IterationOverrunError struct {
	Max int
}

func (e *IterationOverrunError) Error() string {
	return fmt.Sprintf("did not complete within the maximum number of iterations (%d)", e.Max)
}

// TransportError wraps a failure of the model stream itself.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("LLM stream failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
