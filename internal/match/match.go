package match

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shakerlab/diffords/internal/search"
)

// ErrNoCandidates is returned by RankRequired when the candidate list is
// empty. Rank itself treats an empty list as an empty result, not an error.
var ErrNoCandidates = errors.New("no candidates to rank")

// Result pairs a candidate with its similarity score in [0,1].
type Result struct {
	Candidate search.Candidate
	Score     float64
}

// Weights of the blended similarity metrics. The token-sort component keeps
// word reordering ("fashioned old" vs "old fashioned") scoring high.
const (
	plainWeight     = 0.4
	partialWeight   = 0.3
	tokenSortWeight = 0.3
)

// Rank scores every candidate name against the query and returns results
// sorted by descending score. The sort is stable, so ties keep original
// candidate order and repeated runs on identical input yield identical
// ordering. An empty candidate list yields an empty slice.
func Rank(query string, candidates []search.Candidate) []Result {
	q := Normalize(query)
	out := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Result{Candidate: c, Score: Score(q, Normalize(c.Name))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// RankRequired is Rank for callers that need at least one candidate.
func RankRequired(query string, candidates []search.Candidate) ([]Result, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	return Rank(query, candidates), nil
}

// Score computes the blended similarity of two already-normalized strings.
func Score(query, name string) float64 {
	if query == name {
		return 1.0
	}
	if query == "" || name == "" {
		return 0
	}
	s := plainWeight*ratio(query, name) +
		partialWeight*partialRatio(query, name) +
		tokenSortWeight*tokenSortRatio(query, name)
	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	return s
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, folds diacritics ("Piña" matches "Pina") and
// collapses whitespace runs to single spaces.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// ratio is the normalized Levenshtein similarity: 1 - distance/maxLen.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	d := fuzzy.LevenshteinDistance(a, b)
	r := 1 - float64(d)/float64(maxLen)
	if r < 0 {
		return 0
	}
	return r
}

// partialRatio slides the shorter string across the longer one and keeps the
// best window similarity, so a query matching a prefix or suffix of a longer
// name still scores close to 1.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	if len(ra) == len(rb) {
		return ratio(string(ra), string(rb))
	}
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if r := ratio(string(ra), string(rb[i:i+len(ra)])); r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

// tokenSortRatio compares the two strings with their words sorted, making the
// metric insensitive to word order.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}
