package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
)

const (
	webRequestTimeout = 10 * time.Second
	webMaxRetries     = 3
	webUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// webClient fetches pages for the web tools. Transient failures (network
// errors, 5xx, 429) are retried with exponential backoff.
type webClient struct {
	http *http.Client
}

func newWebClient() *webClient {
	return &webClient{http: &http.Client{Timeout: webRequestTimeout}}
}

// get fetches a URL and returns the response body. params, when non-nil, is
// encoded into the query string.
func (c *webClient) get(ctx context.Context, rawURL string, params url.Values) (string, error) {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target = rawURL + sep + params.Encode()
	}

	var body string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", webUserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("server returned status %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(raw)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), webMaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return body, nil
}

// findNode walks the parse tree depth-first and returns the first node the
// predicate accepts.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

// collectNodes walks the parse tree depth-first and returns every node the
// predicate accepts, in document order.
func collectNodes(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func nodeAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	raw, ok := nodeAttr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(raw) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeText extracts the visible text under a node, one line per text run,
// with surrounding whitespace trimmed. Script and style bodies are skipped.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}
