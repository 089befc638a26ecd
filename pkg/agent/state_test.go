package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-chat/loom/pkg/models"
)

func TestNewStateAppendsUserMessage(t *testing.T) {
	prior := &models.ConversationContext{
		History: []models.MessageEntry{{Role: models.RoleHuman, Content: "earlier"}},
		Summary: "talked before",
	}
	s := NewState(prior, "be nice", "what now?", 3)

	require.Len(t, s.History, 2)
	assert.Equal(t, models.RoleHuman, s.History[1].Role)
	assert.Equal(t, "what now?", s.History[1].Content)
	assert.Equal(t, "talked before", s.Summary())
	assert.Equal(t, 3, s.MaxIterations)
}

func TestRecentMessagesIncludesSystemEntries(t *testing.T) {
	s := NewState(nil, "", "q", 3)
	s.AddAIMessage("a1")
	s.PrepareForNextIteration()

	recent := s.RecentMessages(10)
	require.Len(t, recent, 3)
	assert.Equal(t, models.RoleSystem, recent[2].Role, "continuation message must reach the model")

	limited := s.RecentMessages(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "a1", limited[0].Content)
}

func TestPrepareForNextIterationComposesContinuation(t *testing.T) {
	s := NewState(nil, "", "question", 3)
	plan, err := models.ParsePlan([]byte(`{"steps":[{"description":"a","status":"in_progress"},{"description":"b","status":"pending"}],"current_step":1,"total_steps":2}`))
	require.NoError(t, err)
	s.UpdatePlan(plan)
	s.AddReasoning("need fresh data")
	s.ToolResults = []models.ToolResult{
		{ID: "1", Name: "web_search", Result: "three matches"},
		{ID: "2", Name: "math", Error: "division by zero"},
	}
	s.SetStatus(&models.Status{Status: models.StatusContinue})

	s.PrepareForNextIteration()

	last := s.History[len(s.History)-1]
	assert.Equal(t, models.RoleSystem, last.Role)
	assert.Contains(t, last.Content, "Current progress: Step 1 of 2")
	assert.Contains(t, last.Content, "need fresh data")
	assert.Contains(t, last.Content, "Tool web_search result: three matches")
	assert.Contains(t, last.Content, "Error using math: division by zero")
	assert.Contains(t, last.Content, "Do not use this tool again for this query")

	assert.Empty(t, s.ToolQueue)
	assert.Empty(t, s.ToolResults)
	assert.Nil(t, s.Status)
}

func TestPrepareForNextIterationWithoutPlan(t *testing.T) {
	s := NewState(nil, "", "q", 3)
	s.SetStatus(&models.Status{Status: models.StatusContinue})
	s.PrepareForNextIteration()

	last := s.History[len(s.History)-1]
	assert.Contains(t, last.Content, "Current progress: Step Unknown of Unknown")
	assert.Contains(t, last.Content, "No plan set")
}

func TestApplySummaryComposition(t *testing.T) {
	s := NewState(nil, "", "q", 3)

	s.ApplySummary("first summary")
	assert.Equal(t, "first summary", s.Summary())

	s.ApplySummary("second summary")
	assert.Equal(t, "Previous summaries: first summary\nLatest summary: second summary", s.Summary())

	s.ApplySummary("third")
	assert.Equal(t, "Previous summaries: first summary | second summary\nLatest summary: third", s.Summary())
}

func TestUpdatedContextStripsSystemEntries(t *testing.T) {
	s := NewState(nil, "", "hi", 3)
	s.AddAIMessage("hello")
	s.SetStatus(&models.Status{Status: models.StatusContinue})
	s.PrepareForNextIteration()
	s.AddAIMessage("done")
	s.ApplySummary("greeted")

	out := s.UpdatedContext()
	require.Len(t, out.History, 3)
	for _, entry := range out.History {
		assert.NotEqual(t, models.RoleSystem, entry.Role)
	}
	assert.Equal(t, "greeted", out.Summary)
}

func TestUpdatedContextCarriesOnlyLatestSummary(t *testing.T) {
	prior := &models.ConversationContext{Summary: "old summary"}
	s := NewState(prior, "", "hi", 3)
	s.AddAIMessage("hello")
	s.ApplySummary("User said hi, assistant replied hello.")

	assert.Contains(t, s.Summary(), "Previous summaries: old summary", "prompt summary keeps the composed form")

	out := s.UpdatedContext()
	assert.Equal(t, "User said hi, assistant replied hello.", out.Summary)

	// A client echoing the context back must not grow the summary each round.
	next := NewState(&out, "", "again", 3)
	next.AddAIMessage("sure")
	next.ApplySummary("second round")
	assert.Equal(t, "second round", next.UpdatedContext().Summary)
}

func TestUpdatedContextKeepsPriorSummaryWithoutNewOne(t *testing.T) {
	prior := &models.ConversationContext{Summary: "old summary"}
	s := NewState(prior, "", "hi", 3)
	s.AddAIMessage("hello")
	s.SetStatus(&models.Status{Status: models.StatusComplete})

	assert.Equal(t, "old summary", s.UpdatedContext().Summary)
}

func TestUpdatedContextFallbackSummary(t *testing.T) {
	s := NewState(nil, "", "hi", 3)
	plan, err := models.ParsePlan([]byte(`{"steps":[],"current_step":1,"total_steps":1}`))
	require.NoError(t, err)
	s.UpdatePlan(plan)
	s.SetStatus(&models.Status{Status: models.StatusComplete})

	out := s.UpdatedContext()
	assert.Contains(t, out.Summary, "Plan:")
	assert.Contains(t, out.Summary, "Status: complete")
}

func TestUpdatePlanReplacesOnlyOnChange(t *testing.T) {
	s := NewState(nil, "", "q", 3)
	a, err := models.ParsePlan([]byte(`{"steps":[],"current_step":1,"total_steps":2}`))
	require.NoError(t, err)
	s.UpdatePlan(a)
	first := s.Plan

	same, err := models.ParsePlan([]byte(`{"steps":[],"current_step":1,"total_steps":2}`))
	require.NoError(t, err)
	s.UpdatePlan(same)
	assert.Same(t, first, s.Plan)

	changed, err := models.ParsePlan([]byte(`{"steps":[],"current_step":2,"total_steps":2}`))
	require.NoError(t, err)
	s.UpdatePlan(changed)
	assert.Same(t, changed, s.Plan)
}
