package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/shakerlab/diffords/internal/recipe"
)

// ErrMalformedDocument is returned when a fetched page lacks the recipe name
// or the ingredient table. A malformed page is a hard failure: the extractor
// never fabricates a partial recipe.
var ErrMalformedDocument = errors.New("malformed recipe document")

// FromHTML extracts a structured recipe from an already-fetched page. It is a
// pure function of the document content: all network concerns live with the
// fetch collaborator, which keeps this testable against static fixtures.
func FromHTML(doc []byte, sourceURL, query string, confidence float64) (recipe.Recipe, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("parse %s: %w", sourceURL, err)
	}

	name := recipeName(root)
	if name == "" {
		return recipe.Recipe{}, fmt.Errorf("%s: no recipe name: %w", sourceURL, ErrMalformedDocument)
	}

	ingredients, ok := ingredientRows(root)
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("%s: no ingredient table: %w", sourceURL, ErrMalformedDocument)
	}

	return recipe.Recipe{
		Name:            name,
		URL:             sourceURL,
		SearchQuery:     query,
		MatchConfidence: confidence,
		Ingredients:     ingredients,
	}, nil
}

// recipeName reads the designated title element, falling back to the page
// <title> before its " - " site suffix. Whitespace-normalized.
func recipeName(root *html.Node) string {
	if h1 := findFirst(root, "h1", withClass("recipe-name")); h1 != nil {
		return collapseSpaces(textOf(h1))
	}
	if t := findFirst(root, "title", nil); t != nil {
		title := collapseSpaces(textOf(t))
		if i := strings.Index(title, " - "); i >= 0 {
			title = strings.TrimSpace(title[:i])
		}
		return title
	}
	return ""
}

// ingredientRows locates the ingredient container and maps each row to one
// Ingredient in document order. The second return is false when no container
// exists at all.
func ingredientRows(root *html.Node) ([]recipe.Ingredient, bool) {
	if table := findFirst(root, "table", withClass("legacy-ingredients-table")); table != nil {
		return tableRows(table), true
	}
	if table := findFirst(root, "table", withAttr("id", "ingredients-table")); table != nil {
		return tableRows(table), true
	}
	if div := findFirst(root, "div", withClass("recipe-ingredients")); div != nil {
		return itemRows(div), true
	}
	return nil, false
}

func tableRows(table *html.Node) []recipe.Ingredient {
	body := findFirst(table, "tbody", nil)
	if body == nil {
		body = table
	}
	var out []recipe.Ingredient
	forEach(body, "tr", func(tr *html.Node) {
		var cells []*html.Node
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (strings.EqualFold(c.Data, "td") || strings.EqualFold(c.Data, "th")) {
				cells = append(cells, c)
			}
		}
		if len(cells) < 2 {
			return
		}
		quantity := collapseSpaces(textOf(cells[0]))
		name := collapseSpaces(textOf(cells[1]))
		if name == "" {
			return
		}
		measure, unit := splitQuantity(quantity)
		out = append(out, recipe.Ingredient{Name: name, Measure: measure, Unit: unit})
	})
	return out
}

// itemRows handles the alternative div layout where each ingredient is a
// div/li with nested quantity and name elements.
func itemRows(container *html.Node) []recipe.Ingredient {
	var out []recipe.Ingredient
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode &&
			(strings.EqualFold(n.Data, "div") || strings.EqualFold(n.Data, "li")) &&
			(hasClass(n, "ingredient") || hasClass(n, "recipe-ingredient")) {
			qty := firstWithAnyClass(n, "quantity", "ingredient-quantity")
			name := firstWithAnyClass(n, "name", "ingredient-name")
			if qty != nil && name != nil {
				measure, unit := splitQuantity(collapseSpaces(textOf(qty)))
				out = append(out, recipe.Ingredient{
					Name:    collapseSpaces(textOf(name)),
					Measure: measure,
					Unit:    unit,
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// splitQuantity divides a combined quantity field into measure and unit on
// the first whitespace. A lone token such as "6-8", "Top" or "Dash" becomes
// the measure with an empty unit.
func splitQuantity(q string) (measure, unit string) {
	fields := strings.Fields(q)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

type nodePred func(*html.Node) bool

func withClass(class string) nodePred {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func withAttr(key, val string) nodePred {
	return func(n *html.Node) bool { return attrVal(n, key) == val }
}

func findFirst(n *html.Node, tag string, pred nodePred) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) && (pred == nil || pred(cur)) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

func forEach(n *html.Node, tag string, fn func(*html.Node)) {
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			fn(cur)
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dfs(c)
	}
}

func firstWithAnyClass(n *html.Node, classes ...string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode {
			for _, cl := range classes {
				if hasClass(cur, cl) {
					res = cur
					return
				}
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dfs(c)
	}
	return res
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attrVal(n, "class")) {
		if strings.EqualFold(f, class) {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
