package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebParseExtractsContent(t *testing.T) {
	page := `<html><body>
	<nav><a href="/skip">navigation</a></nav>
	<main>
	  <h1>Title</h1>
	  <p>First paragraph.</p>
	  <pre><code>fmt.Println("hi")</code></pre>
	</main>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{"urls": []any{srv.URL}})
	require.NoError(t, err)

	var payload struct {
		ParsedResults []parsedPage `json:"parsed_results"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	require.Len(t, payload.ParsedResults, 1)

	result := payload.ParsedResults[0]
	assert.Empty(t, result.Error)
	assert.Contains(t, result.TextContent, "First paragraph.")
	assert.NotContains(t, result.TextContent, "navigation", "text comes from main, not nav")
	require.NotEmpty(t, result.Links)
	assert.Equal(t, "/skip", result.Links[0].Href)
	require.Len(t, result.CodeSnippets, 1)
	assert.Equal(t, `fmt.Println("hi")`, result.CodeSnippets[0])
}

func TestWebParseAppliesCaps(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body><main>")
	sb.WriteString(strings.Repeat("x", 5000))
	sb.WriteString("</main>")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, `<a href="/l%d">link %d</a>`, i, i)
	}
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&sb, "<code>snippet %d</code>", i)
	}
	sb.WriteString("</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sb.String()))
	}))
	defer srv.Close()

	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{"urls": []any{srv.URL}})
	require.NoError(t, err)

	var payload struct {
		ParsedResults []parsedPage `json:"parsed_results"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	require.Len(t, payload.ParsedResults, 1)

	result := payload.ParsedResults[0]
	assert.Len(t, result.TextContent, maxParsedTextChars)
	assert.Len(t, result.Links, maxParsedLinks)
	assert.Len(t, result.CodeSnippets, maxParsedCodeBlocks)
}

func TestWebParseTruncatesOnRuneBoundary(t *testing.T) {
	page := "<html><body><main>" + strings.Repeat("é", maxParsedTextChars+500) + "</main></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{"urls": []any{srv.URL}})
	require.NoError(t, err)

	var payload struct {
		ParsedResults []parsedPage `json:"parsed_results"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	require.Len(t, payload.ParsedResults, 1)

	text := payload.ParsedResults[0].TextContent
	assert.True(t, utf8.ValidString(text), "truncation must not split a rune")
	assert.Equal(t, maxParsedTextChars, utf8.RuneCountInString(text))
}

func TestWebParsePerURLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>fine</p></body></html>"))
	}))
	defer srv.Close()

	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{
		"urls": []any{srv.URL, "http://127.0.0.1:1/down"},
	})
	require.NoError(t, err)

	var payload struct {
		ParsedResults []parsedPage `json:"parsed_results"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &payload))
	require.Len(t, payload.ParsedResults, 2)

	assert.Empty(t, payload.ParsedResults[0].Error)
	assert.NotEmpty(t, payload.ParsedResults[1].Error, "failed URL gets its own error entry")
}

func TestWebParseAllFailed(t *testing.T) {
	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{
		"urls": []any{"http://127.0.0.1:1/a"},
	})
	require.NoError(t, err)
	assert.Contains(t, got, "No content could be parsed")
}

func TestWebParseEmptyURLList(t *testing.T) {
	tool := NewWebParseTool()
	got, err := tool.Execute(context.Background(), map[string]any{"urls": []any{}})
	require.NoError(t, err)
	assert.Contains(t, got, "No content could be parsed")
}
