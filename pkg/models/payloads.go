package models

import (
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ValidationError reports a tagged payload that does not parse into its schema.
// Fatal to the request when raised for plan, tool, or status payloads.
type ValidationError struct {
	Payload string // tag name of the offending payload
	Reason  string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s payload: %s: %v", e.Payload, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Payload, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// StepStatus is the lifecycle state of a single plan step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// ToolRef names a tool a plan step intends to use.
type ToolRef struct {
	Name      string   `json:"name"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// Step is one entry of the model's declared plan.
type Step struct {
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	Tools       []ToolRef  `json:"tools,omitempty"`
}

// Plan is the model's declared multi-step approach, advanced each iteration.
type Plan struct {
	Steps       []Step `json:"steps"`
	CurrentStep int    `json:"current_step"`
	TotalSteps  int    `json:"total_steps"`
}

// ParsePlan decodes and validates a plan payload.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ValidationError{Payload: "plan", Reason: "malformed JSON", Cause: err}
	}
	if p.CurrentStep < 1 {
		return nil, &ValidationError{Payload: "plan", Reason: fmt.Sprintf("current_step must be >= 1, got %d", p.CurrentStep)}
	}
	if p.TotalSteps < 1 {
		return nil, &ValidationError{Payload: "plan", Reason: fmt.Sprintf("total_steps must be >= 1, got %d", p.TotalSteps)}
	}
	if p.CurrentStep > p.TotalSteps {
		return nil, &ValidationError{Payload: "plan", Reason: fmt.Sprintf("current_step %d exceeds total_steps %d", p.CurrentStep, p.TotalSteps)}
	}
	// Models occasionally send the step list lazily; enforce the count only
	// when steps are actually present.
	if len(p.Steps) > 0 && len(p.Steps) != p.TotalSteps {
		return nil, &ValidationError{Payload: "plan", Reason: fmt.Sprintf("total_steps %d does not match %d steps", p.TotalSteps, len(p.Steps))}
	}
	return &p, nil
}

// Equal reports whether two plans are identical. Used to detect plan changes
// between iterations without re-marshalling.
func (p *Plan) Equal(other *Plan) bool {
	if other == nil {
		return false
	}
	if p.CurrentStep != other.CurrentStep || p.TotalSteps != other.TotalSteps || len(p.Steps) != len(other.Steps) {
		return false
	}
	for i := range p.Steps {
		a, b := p.Steps[i], other.Steps[i]
		if a.Description != b.Description || a.Status != b.Status || len(a.Tools) != len(b.Tools) {
			return false
		}
		for j := range a.Tools {
			if a.Tools[j].Name != b.Tools[j].Name {
				return false
			}
		}
	}
	return true
}

// JSON renders the plan back to its wire form for prompts and summaries.
func (p *Plan) JSON() string {
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Reasoning is the model's thought for the current iteration. Only the
// short UserNotification is surfaced to the client.
type Reasoning struct {
	Thought          string `json:"thought"`
	UserNotification string `json:"user_notification"`
}

// ParseReasoning decodes a reasoning payload.
func ParseReasoning(data []byte) (*Reasoning, error) {
	var r Reasoning
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &ValidationError{Payload: "reasoning", Reason: "malformed JSON", Cause: err}
	}
	if r.Thought == "" {
		return nil, &ValidationError{Payload: "reasoning", Reason: "thought is required"}
	}
	return &r, nil
}

// ToolUse is the model's request to invoke a tool with structured arguments.
type ToolUse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Arguments        map[string]any `json:"arguments"`
	UserNotification string         `json:"user_notification"`
}

// ParseToolUse decodes and validates a tool payload. A fresh ID is generated
// when the model omits one so tool_start/tool_end pairs stay matchable.
func ParseToolUse(data []byte) (*ToolUse, error) {
	var t ToolUse
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &ValidationError{Payload: "tool", Reason: "malformed JSON", Cause: err}
	}
	if t.Name == "" {
		return nil, &ValidationError{Payload: "tool", Reason: "name is required"}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Arguments == nil {
		t.Arguments = map[string]any{}
	}
	return &t, nil
}

// StatusKind is the model's declared terminal or non-terminal state.
type StatusKind string

const (
	StatusContinue StatusKind = "continue"
	StatusClarify  StatusKind = "clarify"
	StatusComplete StatusKind = "complete"
)

// Status is the model's declared state for the current iteration.
type Status struct {
	Status StatusKind `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// ParseStatus decodes and validates a status payload.
func ParseStatus(data []byte) (*Status, error) {
	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ValidationError{Payload: "status", Reason: "malformed JSON", Cause: err}
	}
	switch s.Status {
	case StatusContinue, StatusClarify, StatusComplete:
		return &s, nil
	default:
		return nil, &ValidationError{Payload: "status", Reason: fmt.Sprintf("unknown status %q", s.Status)}
	}
}

// ToolResult is the recorded outcome of one tool invocation. Exactly one of
// Result or Error is set.
type ToolResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// IsError reports whether the invocation failed.
func (r ToolResult) IsError() bool { return r.Error != "" }
