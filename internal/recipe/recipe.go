package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Ingredient is one row of a recipe's ingredient table. Measure holds the
// amount ("2", "6-8", "Top"), Unit the unit token ("oz", "ml") or empty when
// the source gives a bare amount.
type Ingredient struct {
	Name    string
	Measure string
	Unit    string
}

// Quantity renders the measure and unit as they would appear on the page.
func (i Ingredient) Quantity() string {
	if i.Unit == "" {
		return i.Measure
	}
	return i.Measure + " " + i.Unit
}

// Recipe is a fully extracted cocktail recipe. Ingredient order follows the
// source document's row order and is significant (preparation order).
// A Recipe is immutable once built and is never persisted.
type Recipe struct {
	Name            string
	URL             string
	SearchQuery     string
	MatchConfidence float64
	Ingredients     []Ingredient
}

// Equal reports whether two recipes agree in every field, including
// ingredient order.
func (r Recipe) Equal(o Recipe) bool {
	if r.Name != o.Name || r.URL != o.URL || r.SearchQuery != o.SearchQuery || r.MatchConfidence != o.MatchConfidence {
		return false
	}
	if len(r.Ingredients) != len(o.Ingredients) {
		return false
	}
	for i := range r.Ingredients {
		if r.Ingredients[i] != o.Ingredients[i] {
			return false
		}
	}
	return true
}

// measureUnit is the per-ingredient record in the structured encoding.
type measureUnit struct {
	Measure string `json:"measure"`
	Unit    string `json:"unit"`
}

// EncodeStructured serializes the recipe into the machine-readable structured
// format: a JSON object with name, url, search_query, match_confidence and an
// ingredients object keyed by ingredient name whose key order equals recipe
// order. Go maps would scramble that order, so the object is written by hand.
func EncodeStructured(r Recipe, indent bool) (string, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	nl, pad, pad2 := "", "", ""
	if indent {
		nl, pad, pad2 = "\n", "    ", "        "
	}
	writeField := func(key string, val any, comma bool) error {
		enc, err := json.Marshal(val)
		if err != nil {
			return err
		}
		b.WriteString(nl + pad)
		k, _ := json.Marshal(key)
		b.Write(k)
		b.WriteString(": ")
		b.Write(enc)
		if comma {
			b.WriteByte(',')
		}
		return nil
	}
	if err := writeField("name", r.Name, true); err != nil {
		return "", err
	}
	if err := writeField("url", r.URL, true); err != nil {
		return "", err
	}
	if err := writeField("search_query", r.SearchQuery, true); err != nil {
		return "", err
	}
	if err := writeField("match_confidence", r.MatchConfidence, true); err != nil {
		return "", err
	}
	b.WriteString(nl + pad)
	b.WriteString(`"ingredients": {`)
	for i, ing := range r.Ingredients {
		b.WriteString(nl + pad2)
		k, _ := json.Marshal(ing.Name)
		b.Write(k)
		b.WriteString(": ")
		v, err := json.Marshal(measureUnit{Measure: ing.Measure, Unit: ing.Unit})
		if err != nil {
			return "", err
		}
		b.Write(v)
		if i < len(r.Ingredients)-1 {
			b.WriteByte(',')
		}
	}
	if len(r.Ingredients) > 0 {
		b.WriteString(nl + pad)
	}
	b.WriteByte('}')
	b.WriteString(nl)
	b.WriteByte('}')
	return b.String(), nil
}

// DecodeStructured parses text produced by EncodeStructured back into a
// Recipe, preserving ingredient order. encoding/json's map decoding drops key
// order, so the ingredients object is walked token by token instead.
func DecodeStructured(s string) (Recipe, error) {
	var head struct {
		Name            string          `json:"name"`
		URL             string          `json:"url"`
		SearchQuery     string          `json:"search_query"`
		MatchConfidence float64         `json:"match_confidence"`
		Ingredients     json.RawMessage `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(s), &head); err != nil {
		return Recipe{}, fmt.Errorf("parse structured recipe: %w", err)
	}
	r := Recipe{
		Name:            head.Name,
		URL:             head.URL,
		SearchQuery:     head.SearchQuery,
		MatchConfidence: head.MatchConfidence,
	}
	if len(head.Ingredients) == 0 {
		return r, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(head.Ingredients)))
	tok, err := dec.Token()
	if err != nil {
		return Recipe{}, fmt.Errorf("parse ingredients: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Recipe{}, fmt.Errorf("parse ingredients: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Recipe{}, fmt.Errorf("parse ingredients: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return Recipe{}, fmt.Errorf("parse ingredients: non-string key %v", keyTok)
		}
		var mu measureUnit
		if err := dec.Decode(&mu); err != nil {
			return Recipe{}, fmt.Errorf("parse ingredient %q: %w", name, err)
		}
		r.Ingredients = append(r.Ingredients, Ingredient{Name: name, Measure: mu.Measure, Unit: mu.Unit})
	}
	return r, nil
}
