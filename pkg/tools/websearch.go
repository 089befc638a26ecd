package tools

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const defaultSearchResults = 10

// WebSearchTool performs a web search and returns the scraped result list.
type WebSearchTool struct {
	client    *webClient
	searchURL string
}

// NewWebSearchTool creates the web search tool.
func NewWebSearchTool() *WebSearchTool {
	return &WebSearchTool{
		client:    newWebClient(),
		searchURL: "https://www.google.com/search",
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Performs a web search based on the given query and returns a list of search results."
}

func (t *WebSearchTool) Schema() map[string]ArgSpec {
	return map[string]ArgSpec{
		"query": {
			Description: "Search query",
			Type:        "string",
			Required:    true,
		},
		"num_results": {
			Description: "Number of results to return",
			Type:        "integer",
		},
	}
}

type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "", &ToolError{Tool: t.Name(), Message: "query is empty"}
	}
	numResults := defaultSearchResults
	if n, ok := args["num_results"].(float64); ok && n > 0 {
		numResults = int(n)
	}

	slog.Debug("Running web search", "query", query, "num_results", numResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	page, err := t.client.get(ctx, t.searchURL, params)
	if err != nil {
		return "Network error occurred: " + err.Error() + ". Please try again later or check your internet connection.", nil
	}

	results, err := parseSearchResults(page)
	if err != nil {
		return "Error parsing search results: " + err.Error() + ". The search service might be experiencing issues.", nil
	}
	if len(results) == 0 {
		return "No search results found. The query might be too specific. " +
			"Consider rephrasing the query or using more general terms.", nil
	}
	if len(results) > numResults {
		results = results[:numResults]
	}

	out, err := json.Marshal(map[string]any{"search_results": results})
	if err != nil {
		return "", &ToolError{Tool: t.Name(), Message: "encode search results: " + err.Error()}
	}
	return string(out), nil
}

// parseSearchResults extracts result entries from a search response page.
// Each result lives in a div with class "g" holding a title heading, a link,
// and a snippet div.
func parseSearchResults(page string) ([]searchResult, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var results []searchResult
	for _, block := range collectNodes(doc, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "g")
	}) {
		title := findNode(block, func(n *html.Node) bool { return isElement(n, "h3") })
		link := findNode(block, func(n *html.Node) bool {
			if !isElement(n, "a") {
				return false
			}
			_, ok := nodeAttr(n, "href")
			return ok
		})
		snippet := findNode(block, func(n *html.Node) bool {
			return isElement(n, "div") && (hasClass(n, "s") || hasClass(n, "VwiC3b"))
		})
		if title == nil || link == nil || snippet == nil {
			continue
		}
		href, _ := nodeAttr(link, "href")
		results = append(results, searchResult{
			Title:   nodeText(title),
			Link:    href,
			Snippet: nodeText(snippet),
		})
	}
	return results, nil
}
