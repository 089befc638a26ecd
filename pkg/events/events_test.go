package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-chat/loom/pkg/models"
)

func marshal(t *testing.T, ev Event) string {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(b)
}

func TestEventWireShapes(t *testing.T) {
	assert.JSONEq(t, `{"type": "reasoning", "content": "Searching"}`, marshal(t, Reasoning("Searching")))
	assert.JSONEq(t, `{"type": "text", "content": "he"}`, marshal(t, Text("he")))
	assert.JSONEq(t, `{"type": "error", "content": "boom"}`, marshal(t, Error("boom")))
}

func TestToolLifecycleShapes(t *testing.T) {
	start := marshal(t, ToolStart("1", "math", "does math", "Calculating"))
	assert.JSONEq(t, `{"type": "tool_start", "content": {"id": "1", "name": "math", "description": "does math", "user_notification": "Calculating"}}`, start)

	success := marshal(t, ToolEnd(models.ToolResult{ID: "1", Name: "math", Result: "2"}))
	assert.JSONEq(t, `{"type": "tool_end", "content": {"id": "1", "name": "math", "result": "2"}}`, success)

	failure := marshal(t, ToolEnd(models.ToolResult{ID: "1", Name: "math", Error: "bad input"}))
	assert.JSONEq(t, `{"type": "tool_end", "content": {"id": "1", "name": "math", "error": "bad input"}}`, failure)
}

func TestUpdatedContextShape(t *testing.T) {
	ctx := models.ConversationContext{
		History: []models.MessageEntry{{Role: models.RoleHuman, Content: "hi"}},
		Summary: "greeting",
	}
	out := marshal(t, UpdatedContext(ctx))
	assert.JSONEq(t, `{"type": "updated_context", "content": {"history": [{"role": "human", "content": "hi"}], "summary": "greeting"}}`, out)
}
