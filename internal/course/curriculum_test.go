package course

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCurricula_TitlesFor(t *testing.T) {
	c := DefaultCurricula()
	tests := []struct {
		query string
		first string
	}{
		{"React", "React Fundamentals & Setup"},
		{"react hooks and javascript", "React Fundamentals & Setup"},
		{"Node.js backend", "Node.js Introduction & Setup"},
		{"modern JavaScript", "JavaScript Basics & Syntax"},
		{"learn js", "JavaScript Basics & Syntax"},
		{"python for data", "Python Setup & Syntax"},
		{"HTML and CSS", "HTML Structure & Elements"},
		{"json parsing", "Introduction"},
		{"rust", "Introduction"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			titles := c.TitlesFor(tt.query)
			if len(titles) == 0 || titles[0] != tt.first {
				t.Errorf("TitlesFor(%q) = %v; want first %q", tt.query, titles, tt.first)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, word string
		want       bool
	}{
		{"learn js", "js", true},
		{"json", "js", false},
		{"node.js", "node", true},
		{"nodemon", "node", false},
		{"js and json", "json", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := containsWord(tt.text, tt.word); got != tt.want {
			t.Errorf("containsWord(%q, %q) = %v; want %v", tt.text, tt.word, got, tt.want)
		}
	}
}

func TestLoadCurricula(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curricula.yaml")
	data := `tracks:
  - name: go
    keywords: [golang, go]
    titles: [Tour of Go, Types, Goroutines, Channels, Modules]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCurricula(path)
	if err != nil {
		t.Fatalf("LoadCurricula: %v", err)
	}
	if got := c.TitlesFor("golang basics"); got[0] != "Tour of Go" {
		t.Errorf("expected go track, got %v", got)
	}
	if got := c.TitlesFor("cooking"); got[0] != "Introduction" {
		t.Errorf("missing fallback should use built-in list, got %v", got)
	}
}

func TestLoadCurricula_invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("tracks:\n  - name: empty\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadCurricula(bad)
	if err == nil || !strings.Contains(err.Error(), "no keywords") || !strings.Contains(err.Error(), "no titles") {
		t.Errorf("expected validation errors, got %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("tracks: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCurricula(broken); err == nil {
		t.Error("expected parse error")
	}

	if _, err := LoadCurricula(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}
