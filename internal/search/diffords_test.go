package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type stubFetcher struct {
	body    []byte
	err     error
	lastURL string
}

func (s *stubFetcher) Get(_ context.Context, url string) ([]byte, string, error) {
	s.lastURL = url
	if s.err != nil {
		return nil, "", s.err
	}
	return s.body, "text/html", nil
}

const searchPage = `<html><body>
<div class="results">
  <a href="/cocktails/recipe/1234/mojito"><h3>Mojito</h3></a>
  <a href="/cocktails/recipe/1234/mojito">Mojito (duplicate link)</a>
  <a href="/cocktails/recipe/5678/mojito-royale"><span>Mojito  Royale</span></a>
  <a href="/about">About us</a>
  <a href="https://www.diffordsguide.com/cocktails/recipe/9/virgin-mojito">Virgin Mojito</a>
</div>
</body></html>`

func TestDiffords_Search(t *testing.T) {
	f := &stubFetcher{body: []byte(searchPage)}
	p := &Diffords{BaseURL: "https://www.diffordsguide.com", Client: f}

	got, err := p.Search(context.Background(), "mojito", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if f.lastURL != "https://www.diffordsguide.com/search?q=mojito" {
		t.Fatalf("unexpected search URL: %s", f.lastURL)
	}
	want := []Candidate{
		{Name: "Mojito", URL: "https://www.diffordsguide.com/cocktails/recipe/1234/mojito", Source: "diffords"},
		{Name: "Mojito Royale", URL: "https://www.diffordsguide.com/cocktails/recipe/5678/mojito-royale", Source: "diffords"},
		{Name: "Virgin Mojito", URL: "https://www.diffordsguide.com/cocktails/recipe/9/virgin-mojito", Source: "diffords"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDiffords_SearchEscapesQuery(t *testing.T) {
	f := &stubFetcher{body: []byte("<html></html>")}
	p := &Diffords{Client: f}
	if _, err := p.Search(context.Background(), "old fashioned", 5); err != nil {
		t.Fatalf("search: %v", err)
	}
	if f.lastURL != DefaultBaseURL+"/search?q=old+fashioned" {
		t.Fatalf("query not escaped: %s", f.lastURL)
	}
}

func TestDiffords_Limit(t *testing.T) {
	f := &stubFetcher{body: []byte(searchPage)}
	p := &Diffords{Client: f}
	got, err := p.Search(context.Background(), "mojito", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Mojito" {
		t.Fatalf("limit not applied: %+v", got)
	}
}

func TestDiffords_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	p := &Diffords{Client: &stubFetcher{err: boom}}
	if _, err := p.Search(context.Background(), "mojito", 5); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestFileProvider_Search(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.json")
	data := `[
  {"name": "Mojito", "url": "https://example.com/cocktails/recipe/1/mojito"},
  {"name": "", "url": "https://example.com/skipped"},
  {"name": "Daiquiri", "url": "https://example.com/cocktails/recipe/2/daiquiri"}
]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	p := &FileProvider{Path: path}
	got, err := p.Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Mojito" || got[1].Name != "Daiquiri" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	if got[0].Source != "file" {
		t.Fatalf("source not set: %+v", got[0])
	}
}

func TestFileProvider_EmptyPath(t *testing.T) {
	p := &FileProvider{}
	if _, err := p.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error for empty path")
	}
}
