package search

import (
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

	// A browser user agent; the HTML endpoint refuses obvious bots.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// DuckDuckGo scrapes the HTML (no-API-key) DuckDuckGo endpoint. "buy online"
// is appended to bias results toward shopping pages.
type DuckDuckGo struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewDuckDuckGo(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{HTTPClient: client, BaseURL: defaultDuckDuckGoURL}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) []Product {
	target := fmt.Sprintf("%s?q=%s", d.BaseURL, url.QueryEscape(query+" buy online"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Warn("search: build request", "err", err)
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		log.Warn("search: duckduckgo request failed", "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("search: duckduckgo bad status", "status", resp.StatusCode)
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		log.Warn("search: parse result page", "err", err)
		return nil
	}

	var products []Product
	for _, div := range findAll(doc, isResultDiv, maxResults) {
		title, link := firstAnchor(div, "result__a")
		if title == "" {
			continue
		}
		snippet, _ := firstAnchor(div, "result__snippet")
		if snippet == "" {
			snippet = "No description available"
		}
		products = append(products, Product{
			Rank:        len(products) + 1,
			Title:       title,
			Link:        link,
			Description: truncateDescription(snippet),
		})
	}
	return products
}

func isResultDiv(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result")
}

// findAll collects up to limit nodes matching pred, document order, without
// descending into matched nodes.
func findAll(n *html.Node, pred func(*html.Node) bool, limit int) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(out) >= limit {
			return
		}
		if pred(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstAnchor returns the text and href of the first <a> under n carrying
// the given class.
func firstAnchor(n *html.Node, class string) (text, href string) {
	match := func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "a" && hasClass(c, class)
	}
	nodes := findAll(n, match, 1)
	if len(nodes) == 0 {
		return "", ""
	}
	a := nodes[0]
	return strings.TrimSpace(textContent(a)), attr(a, "href")
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
