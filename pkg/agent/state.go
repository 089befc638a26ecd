package agent

import (
	"fmt"
	"strings"

	"github.com/loom-chat/loom/pkg/models"
)

// State is the per-request working state of the conversation loop. It starts
// from the client-provided context, accumulates plan, reasoning, tool, and
// summary data across iterations, and is folded back into an outgoing
// ConversationContext at the end. Owned by a single request; never shared.
type State struct {
	SystemPrompt string
	UserInput    string
	History      []models.MessageEntry
	Plan         *models.Plan
	Reasoning    []string
	ToolQueue    []models.ToolUse
	ToolResults  []models.ToolResult
	Status       *models.Status

	// MaxIterations bounds the loop. It may grow once a plan is known but
	// never shrinks.
	MaxIterations int

	summaryHistory []string
	latestSummary  string
	summary        string
}

// NewState builds the request state from the client context. The incoming
// user message is appended to the history immediately so the first prompt
// already ends with it.
func NewState(context *models.ConversationContext, systemPrompt, userInput string, maxIterations int) *State {
	s := &State{
		SystemPrompt:  systemPrompt,
		UserInput:     userInput,
		MaxIterations: maxIterations,
	}
	if context != nil {
		s.History = append(s.History, context.History...)
		s.summary = context.Summary
		if context.Summary != "" {
			s.summaryHistory = append(s.summaryHistory, context.Summary)
			s.latestSummary = context.Summary
		}
	}
	s.addMessage(models.RoleHuman, userInput)
	return s
}

func (s *State) addMessage(role models.Role, content string) {
	s.History = append(s.History, models.MessageEntry{Role: role, Content: content})
}

// AddAIMessage records the model's user-visible text for this iteration.
func (s *State) AddAIMessage(content string) {
	s.addMessage(models.RoleAI, content)
}

// UpdatePlan replaces the current plan when the model sends a different one.
func (s *State) UpdatePlan(plan *models.Plan) {
	if s.Plan == nil || !s.Plan.Equal(plan) {
		s.Plan = plan
	}
}

// AddReasoning appends a reasoning thought to the running history.
func (s *State) AddReasoning(thought string) {
	s.Reasoning = append(s.Reasoning, thought)
}

// QueueTool appends a requested tool call to the iteration's queue.
func (s *State) QueueTool(t models.ToolUse) {
	s.ToolQueue = append(s.ToolQueue, t)
}

// SetStatus records the model's declared status for this iteration.
func (s *State) SetStatus(status *models.Status) {
	s.Status = status
}

// Summary returns the composed running summary.
func (s *State) Summary() string { return s.summary }

// ApplySummary folds a freshly received summary section into the running
// summary. Earlier summaries are kept as compressed context.
func (s *State) ApplySummary(summary string) {
	s.summaryHistory = append(s.summaryHistory, summary)
	s.latestSummary = summary
	if len(s.summaryHistory) == 1 {
		s.summary = summary
		return
	}
	prior := s.summaryHistory[:len(s.summaryHistory)-1]
	s.summary = fmt.Sprintf("Previous summaries: %s\nLatest summary: %s", strings.Join(prior, " | "), summary)
}

// RecentMessages returns the last limit history entries. System entries are
// included so continuation messages stay visible to the model.
func (s *State) RecentMessages(limit int) []models.MessageEntry {
	if limit <= 0 || len(s.History) <= limit {
		return s.History
	}
	return s.History[len(s.History)-limit:]
}

// PrepareForNextIteration appends the continuation system message that
// carries the loop state into the next model call, then clears the tool
// queue, tool results, and status.
func (s *State) PrepareForNextIteration() {
	resultsSummary := make([]string, 0, len(s.ToolResults))
	for _, result := range s.ToolResults {
		if result.IsError() {
			resultsSummary = append(resultsSummary, fmt.Sprintf(
				"Error using %s: %s. Do not use this tool again for this query. "+
					"Consider alternative approaches or rephrase the query.",
				result.Name, result.Error))
		} else {
			resultsSummary = append(resultsSummary, fmt.Sprintf("Tool %s result: %s", result.Name, result.Result))
		}
	}

	currentStep, totalSteps, planJSON := "Unknown", "Unknown", "No plan set"
	if s.Plan != nil {
		currentStep = fmt.Sprintf("%d", s.Plan.CurrentStep)
		totalSteps = fmt.Sprintf("%d", s.Plan.TotalSteps)
		planJSON = s.Plan.JSON()
	}

	continuation := fmt.Sprintf(
		"Current progress: Step %s of %s\n\n"+
			"Continue with the next step of your plan. Here's a summary of the current state:\n\n"+
			"Current plan: %s\n\n"+
			"Previous reasoning steps:\n%s\n\n"+
			"Recent tool results:\n%s\n\n"+
			"Based on this information, proceed with the next step of the plan or adjust it if necessary. "+
			"If you need more information, consider using available tools, but avoid repeating failed tool calls. "+
			"If a tool failed, try alternative approaches or rephrase the query.",
		currentStep, totalSteps, planJSON,
		strings.Join(s.Reasoning, " "),
		strings.Join(resultsSummary, " | "))

	s.addMessage(models.RoleSystem, continuation)
	s.ToolQueue = nil
	s.ToolResults = nil
	s.Status = nil
}

// UpdatedContext builds the context returned to the client: the history with
// internal system entries removed, plus the most recent summary. The composed
// multi-summary form stays internal to the request; the client gets only the
// latest summary, so echoing the context back never re-nests it. When no
// summary exists at all, a minimal one is composed from the plan and status
// so the next request still carries compressed state.
func (s *State) UpdatedContext() models.ConversationContext {
	cleaned := make([]models.MessageEntry, 0, len(s.History))
	for _, entry := range s.History {
		if entry.Role == models.RoleSystem {
			continue
		}
		cleaned = append(cleaned, entry)
	}

	summary := s.latestSummary
	if summary == "" {
		summary = s.fallbackSummary()
	}
	return models.ConversationContext{History: cleaned, Summary: summary}
}

func (s *State) fallbackSummary() string {
	var parts []string
	if s.Plan != nil {
		parts = append(parts, "Plan: "+s.Plan.JSON())
	}
	if s.Status != nil {
		parts = append(parts, "Status: "+string(s.Status.Status))
	}
	if len(parts) == 0 {
		return s.summary
	}
	return strings.Join(parts, " ")
}
