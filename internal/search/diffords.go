package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DefaultBaseURL is the public Difford's Guide site root.
const DefaultBaseURL = "https://www.diffordsguide.com"

// Fetcher retrieves a page body. Satisfied by fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Diffords implements Provider against the Difford's Guide search page.
// Search fetches {base}/search?q=<query> and collects recipe links from the
// returned markup, preserving page order.
type Diffords struct {
	BaseURL string
	Client  Fetcher
}

func (d *Diffords) Name() string { return "diffords" }

func (d *Diffords) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if d.Client == nil {
		return nil, fmt.Errorf("diffords provider: no fetch client configured")
	}
	base := strings.TrimRight(d.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if limit <= 0 {
		limit = 10
	}
	searchURL := base + "/search?q=" + url.QueryEscape(query)
	body, _, err := d.Client.Get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	cands, err := parseSearchPage(body, base)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	for i := range cands {
		cands[i].Source = d.Name()
	}
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands, nil
}

// parseSearchPage pulls recipe anchors out of a search results document.
// Anchors are identified by their href path containing /cocktails/recipe/ and
// deduplicated by href, keeping first occurrence order.
func parseSearchPage(doc []byte, base string) ([]Candidate, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	var out []Candidate
	seen := map[string]struct{}{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") {
			href := attrVal(n, "href")
			if href != "" && strings.Contains(href, "/cocktails/recipe/") {
				if _, ok := seen[href]; !ok {
					seen[href] = struct{}{}
					name := collapseSpaces(nodeText(n))
					if name != "" {
						out = append(out, Candidate{Name: name, URL: resolveHref(href, base)})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func resolveHref(href, base string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
