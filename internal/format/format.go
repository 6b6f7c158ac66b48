package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shakerlab/diffords/internal/recipe"
)

// Mode selects one of the textual renderings of a recipe.
type Mode string

const (
	// ModeStructured is the machine-readable, round-trip-safe serialization.
	ModeStructured Mode = "structured"
	ModeTable      Mode = "table"
	ModeProseList  Mode = "prose-list"
	ModeCondensed  Mode = "condensed"
	ModeMarkdown   Mode = "markdown"
	ModePretty     Mode = "pretty"
)

// ErrUnknownMode is returned for format names outside the supported set.
var ErrUnknownMode = errors.New("unknown output format")

// Modes lists the supported format names in display order.
func Modes() []string {
	return []string{
		string(ModeStructured), string(ModeTable), string(ModeProseList),
		string(ModeCondensed), string(ModeMarkdown), string(ModePretty),
	}
}

// ParseMode validates a user-supplied format name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeStructured, ModeTable, ModeProseList, ModeCondensed, ModeMarkdown, ModePretty:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownMode, s, strings.Join(Modes(), ", "))
}

// Render is a pure, total function over any valid recipe. Recipes with zero
// ingredients render with an empty ingredient section, not an error. All
// list-like modes preserve ingredient order exactly.
func Render(r recipe.Recipe, mode Mode) (string, error) {
	switch mode {
	case ModeStructured:
		return recipe.EncodeStructured(r, true)
	case ModeTable:
		return renderTable(r), nil
	case ModeProseList:
		return renderProseList(r), nil
	case ModeCondensed:
		return renderCondensed(r), nil
	case ModeMarkdown:
		return renderMarkdown(r), nil
	case ModePretty:
		return renderPretty(r), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func renderPretty(r recipe.Recipe) string {
	var lines []string
	lines = append(lines, r.Name, strings.Repeat("=", len(r.Name)+3), "")
	if len(r.Ingredients) == 0 {
		lines = append(lines, "No ingredients found.")
	} else {
		lines = append(lines, "Ingredients:")
		width := 0
		for _, ing := range r.Ingredients {
			if l := len(ing.Quantity()); l > width {
				width = l
			}
		}
		for i, ing := range r.Ingredients {
			lines = append(lines, fmt.Sprintf("  %2d. %-*s %s", i+1, width, ing.Quantity(), ing.Name))
		}
	}
	lines = append(lines, "", "Recipe URL: "+r.URL)
	return strings.Join(lines, "\n")
}

func renderProseList(r recipe.Recipe) string {
	var lines []string
	lines = append(lines, r.Name, strings.Repeat("-", len(r.Name)), "")
	if len(r.Ingredients) == 0 {
		lines = append(lines, "No ingredients found.")
	} else {
		for _, ing := range r.Ingredients {
			lines = append(lines, "• "+ing.Quantity()+" "+ing.Name)
		}
	}
	return strings.Join(lines, "\n")
}

func renderCondensed(r recipe.Recipe) string {
	if len(r.Ingredients) == 0 {
		return r.Name + ": No ingredients found"
	}
	parts := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		parts = append(parts, ing.Quantity()+" "+ing.Name)
	}
	return r.Name + ": " + strings.Join(parts, ", ")
}

func renderTable(r recipe.Recipe) string {
	var lines []string
	lines = append(lines, "Cocktail: "+r.Name, "")
	if len(r.Ingredients) == 0 {
		lines = append(lines, "No ingredients found.")
		return strings.Join(lines, "\n")
	}
	measureW, nameW := len("Measure"), len("Ingredient")
	for _, ing := range r.Ingredients {
		if l := len(ing.Quantity()); l > measureW {
			measureW = l
		}
		if l := len(ing.Name); l > nameW {
			nameW = l
		}
	}
	lines = append(lines,
		fmt.Sprintf("%-*s | %-*s", measureW, "Measure", nameW, "Ingredient"),
		strings.Repeat("-", measureW)+"-+-"+strings.Repeat("-", nameW),
	)
	for _, ing := range r.Ingredients {
		lines = append(lines, fmt.Sprintf("%-*s | %-*s", measureW, ing.Quantity(), nameW, ing.Name))
	}
	return strings.Join(lines, "\n")
}

func renderMarkdown(r recipe.Recipe) string {
	var lines []string
	lines = append(lines, "# "+r.Name, "")
	if len(r.Ingredients) == 0 {
		lines = append(lines, "*No ingredients found.*")
	} else {
		lines = append(lines, "## Ingredients", "")
		for _, ing := range r.Ingredients {
			lines = append(lines, fmt.Sprintf("- **%s** %s", ing.Quantity(), ing.Name))
		}
	}
	lines = append(lines, "", fmt.Sprintf("**Source:** [%s](%s)", r.URL, r.URL))
	if r.MatchConfidence < 1.0 {
		lines = append(lines, fmt.Sprintf("**Match confidence:** %.0f%%", r.MatchConfidence*100))
	}
	return strings.Join(lines, "\n")
}
