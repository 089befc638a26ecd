package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-chat/loom/pkg/models"
	"github.com/loom-chat/loom/pkg/tools"
)

func TestBuildMessagesComposition(t *testing.T) {
	b := NewBuilder()
	recent := []models.MessageEntry{
		{Role: models.RoleHuman, Content: "earlier question"},
		{Role: models.RoleAI, Content: "earlier answer"},
		{Role: models.RoleSystem, Content: "continuation state"},
		{Role: models.RoleHuman, Content: "current question"},
	}

	messages := b.BuildMessages("act helpful", "we talked before", recent, nil)
	require.Len(t, messages, 7)

	assert.Equal(t, models.RoleSystem, messages[0].Role)
	assert.Equal(t, "act helpful", messages[0].Content)
	assert.Equal(t, "Previous conversation summary: we talked before", messages[1].Content)

	assert.Equal(t, "continuation state", messages[4].Content)
	assert.Equal(t, models.RoleSystem, messages[4].Role)
	assert.Equal(t, "current question", messages[5].Content)
	assert.Equal(t, models.RoleHuman, messages[5].Role)

	last := messages[6]
	assert.Equal(t, models.RoleSystem, last.Role)
	assert.Contains(t, last.Content, "Response Format Instructions")
	assert.Contains(t, last.Content, "No tools available.")
}

func TestBuildMessagesEndsWithFormatInstructions(t *testing.T) {
	b := NewBuilder()
	recent := []models.MessageEntry{
		{Role: models.RoleHuman, Content: "hi"},
	}

	messages := b.BuildMessages("act helpful", "", recent, nil)
	require.Len(t, messages, 3)
	assert.Equal(t, "hi", messages[1].Content)

	last := messages[len(messages)-1]
	assert.Equal(t, models.RoleSystem, last.Role)
	assert.Contains(t, last.Content, "Response Format Instructions")
}

func TestBuildMessagesOmitsEmptySections(t *testing.T) {
	b := NewBuilder()
	recent := []models.MessageEntry{{Role: models.RoleHuman, Content: "hi"}}

	messages := b.BuildMessages("", "", recent, nil)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Contains(t, messages[1].Content, "Response Format Instructions")
}

func TestFormatToolDescriptions(t *testing.T) {
	defs := []tools.Definition{
		{
			Name:        "web_search",
			Description: "Performs a web search.",
			Schema: map[string]tools.ArgSpec{
				"query":       {Description: "Search query", Type: "string", Required: true},
				"num_results": {Description: "Number of results to return", Type: "integer"},
			},
		},
		{
			Name:        "get_current_datetime",
			Description: "Returns the current date and time.",
		},
	}

	out := FormatToolDescriptions(defs)
	assert.Contains(t, out, "web_search: Performs a web search. / Arguments: num_results: Number of results to return, query: Search query (required)")
	assert.Contains(t, out, "get_current_datetime: Returns the current date and time. / Arguments: none")
}

func TestFormatToolDescriptionsEmpty(t *testing.T) {
	assert.Equal(t, "No tools available.", FormatToolDescriptions(nil))
}

func TestFormatInstructionsNameRequiredTags(t *testing.T) {
	for _, tag := range []string{"[PLAN]", "[REASONING]", "[TEXT]", "[STATUS]", "[SUMMARY]", "[TOOL]"} {
		assert.Contains(t, formatInstructions, tag)
	}
}
