package tools

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

const (
	maxParsedTextChars  = 1000
	maxParsedLinks      = 10
	maxParsedCodeBlocks = 5
)

// WebParseTool fetches web pages and extracts their main text, links, and
// code snippets. URLs are fetched concurrently; a failure on one URL is
// recorded in that URL's entry and never fails the whole call.
type WebParseTool struct {
	client *webClient
}

// NewWebParseTool creates the web parse tool.
func NewWebParseTool() *WebParseTool {
	return &WebParseTool{client: newWebClient()}
}

func (t *WebParseTool) Name() string { return "web_parse" }

func (t *WebParseTool) Description() string {
	return "Parses and analyzes the content of web pages from a given list of URLs, extracting main text, links, and code snippets."
}

func (t *WebParseTool) Schema() map[string]ArgSpec {
	return map[string]ArgSpec{
		"urls": {
			Description: "List of URLs to parse",
			Type:        "array",
			Items:       "string",
			Required:    true,
		},
	}
}

type parsedLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type parsedPage struct {
	URL          string       `json:"url"`
	TextContent  string       `json:"text_content,omitempty"`
	Links        []parsedLink `json:"links,omitempty"`
	CodeSnippets []string     `json:"code_snippets,omitempty"`
	Error        string       `json:"error,omitempty"`
}

func (t *WebParseTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	urls := stringSlice(args["urls"])
	if len(urls) == 0 {
		return "No content could be parsed from the provided URLs. " +
			"Please verify the URLs and try again, or consider using a different source of information.", nil
	}

	pages := make([]parsedPage, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			pages[i] = t.parseOne(ctx, u)
		}(i, u)
	}
	wg.Wait()

	allFailed := true
	for _, p := range pages {
		if p.Error == "" {
			allFailed = false
			break
		}
	}
	if allFailed {
		return "No content could be parsed from the provided URLs. " +
			"Please verify the URLs and try again, or consider using a different source of information.", nil
	}

	out, err := json.Marshal(map[string]any{"parsed_results": pages})
	if err != nil {
		return "", &ToolError{Tool: t.Name(), Message: "encode parsed results: " + err.Error()}
	}
	return string(out), nil
}

func (t *WebParseTool) parseOne(ctx context.Context, pageURL string) parsedPage {
	body, err := t.client.get(ctx, pageURL, nil)
	if err != nil {
		return parsedPage{URL: pageURL, Error: err.Error()}
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return parsedPage{URL: pageURL, Error: "parse html: " + err.Error()}
	}

	// Prefer the semantic content root; fall back to the whole body.
	content := findNode(doc, func(n *html.Node) bool { return isElement(n, "main") })
	if content == nil {
		content = findNode(doc, func(n *html.Node) bool { return isElement(n, "article") })
	}
	if content == nil {
		content = findNode(doc, func(n *html.Node) bool { return isElement(n, "body") })
	}

	text := ""
	if content != nil {
		text = nodeText(content)
	}
	// Cap is in characters, not bytes; slicing bytes could split a rune.
	if len(text) > maxParsedTextChars {
		if runes := []rune(text); len(runes) > maxParsedTextChars {
			text = string(runes[:maxParsedTextChars])
		}
	}

	var links []parsedLink
	for _, a := range collectNodes(doc, func(n *html.Node) bool {
		if !isElement(n, "a") {
			return false
		}
		_, ok := nodeAttr(n, "href")
		return ok
	}) {
		if len(links) == maxParsedLinks {
			break
		}
		href, _ := nodeAttr(a, "href")
		links = append(links, parsedLink{Text: nodeText(a), Href: href})
	}

	var snippets []string
	for _, code := range collectNodes(doc, func(n *html.Node) bool { return isElement(n, "code") }) {
		if len(snippets) == maxParsedCodeBlocks {
			break
		}
		snippets = append(snippets, nodeText(code))
	}

	return parsedPage{URL: pageURL, TextContent: text, Links: links, CodeSnippets: snippets}
}

// stringSlice coerces a decoded-JSON array value into []string, skipping
// non-string elements.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
