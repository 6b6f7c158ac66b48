package search

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads candidates from a local JSON file for offline runs and
// testing. The file format is an array of objects: {"name": "...", "url": "..."}.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Candidate, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Candidate
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(raw))
	for _, c := range raw {
		if c.Name == "" || c.URL == "" {
			continue
		}
		c.Source = f.Name()
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
