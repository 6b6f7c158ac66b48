package match

import (
	"errors"
	"testing"

	"github.com/shakerlab/diffords/internal/search"
)

func cands(names ...string) []search.Candidate {
	out := make([]search.Candidate, 0, len(names))
	for i, n := range names {
		out = append(out, search.Candidate{Name: n, URL: "https://example.com/" + string(rune('a'+i))})
	}
	return out
}

func TestRank_ExactMatchScoresOneAndRanksFirst(t *testing.T) {
	got := Rank("mojito", cands("Mojito Royale", "Mojito", "Virgin Mojito"))
	if got[0].Candidate.Name != "Mojito" {
		t.Fatalf("expected exact match first, got %q", got[0].Candidate.Name)
	}
	if got[0].Score != 1.0 {
		t.Fatalf("expected score 1.0 for exact normalized match, got %f", got[0].Score)
	}
}

func TestRank_CaseAndWhitespaceNormalized(t *testing.T) {
	got := Rank("  OLD   fashioned ", cands("Old Fashioned"))
	if got[0].Score != 1.0 {
		t.Fatalf("expected 1.0 after normalization, got %f", got[0].Score)
	}
}

func TestRank_DiacriticsFolded(t *testing.T) {
	got := Rank("pina colada", cands("Piña Colada"))
	if got[0].Score != 1.0 {
		t.Fatalf("expected diacritic-folded exact match, got %f", got[0].Score)
	}
}

func TestRank_TokenReorderScoresHighly(t *testing.T) {
	got := Rank("fashioned old", cands("Old Fashioned", "Negroni"))
	if got[0].Candidate.Name != "Old Fashioned" {
		t.Fatalf("expected reordered-token match first, got %q", got[0].Candidate.Name)
	}
	// Token-sort equality contributes its full weight even though the plain
	// edit distance between the reordered forms is large.
	if got[0].Score < 0.5 {
		t.Fatalf("expected reordered tokens to score highly, got %f", got[0].Score)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("reordered match should outrank unrelated name: %f vs %f", got[0].Score, got[1].Score)
	}
}

func TestRank_SortedNonIncreasingAndDeterministic(t *testing.T) {
	in := cands("Daiquiri", "Margarita", "Mojito", "Mojito Royale", "Mai Tai")
	first := Rank("mojito", in)
	for i := 1; i < len(first); i++ {
		if first[i].Score > first[i-1].Score {
			t.Fatalf("scores not non-increasing at %d: %f > %f", i, first[i].Score, first[i-1].Score)
		}
	}
	second := Rank("mojito", in)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rank not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	// Identical names must tie exactly; the stable sort keeps list order.
	in := []search.Candidate{
		{Name: "Daiquiri", URL: "https://example.com/first"},
		{Name: "Daiquiri", URL: "https://example.com/second"},
	}
	got := Rank("daiquiri", in)
	if got[0].Candidate.URL != "https://example.com/first" {
		t.Fatalf("tie not broken by original order: %+v", got)
	}
}

func TestRank_EmptyCandidatesYieldEmptyResult(t *testing.T) {
	if got := Rank("mojito", nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestRankRequired_NoCandidates(t *testing.T) {
	if _, err := RankRequired("mojito", nil); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	got, err := RankRequired("mojito", cands("Mojito"))
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}
}

func TestScore_PartialName(t *testing.T) {
	exact := Score("mojito", "mojito")
	partial := Score("mojito", "mojito royale")
	unrelated := Score("mojito", "whiskey sour")
	if !(exact > partial && partial > unrelated) {
		t.Fatalf("expected exact > partial > unrelated, got %f %f %f", exact, partial, unrelated)
	}
	if partial < 0.5 {
		t.Fatalf("partial name match should score reasonably: %f", partial)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Old   Fashioned  ": "old fashioned",
		"Piña\tColada":        "pina colada",
		"MOJITO":              "mojito",
		"":                    "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
