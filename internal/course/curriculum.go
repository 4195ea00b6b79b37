package course

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Track maps topic keywords to the segment titles used for that topic.
type Track struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Titles   []string `yaml:"titles"`
}

// Curricula is an ordered lookup table: the first track with a keyword in the
// query wins, and Fallback applies when none match.
type Curricula struct {
	Tracks   []Track  `yaml:"tracks"`
	Fallback []string `yaml:"fallback"`
}

var defaultFallback = []string{
	"Introduction",
	"Basic Concepts",
	"Core Features",
	"Advanced Topics",
	"Best Practices",
}

// DefaultCurricula returns the built-in tracks.
func DefaultCurricula() Curricula {
	return Curricula{
		Tracks: []Track{
			{
				Name:     "react",
				Keywords: []string{"react", "reactjs", "react.js"},
				Titles: []string{
					"React Fundamentals & Setup",
					"Components & JSX",
					"State & Props",
					"Hooks & Effects",
					"Building a Complete React App",
				},
			},
			{
				Name:     "node",
				Keywords: []string{"node", "nodejs", "node.js", "express"},
				Titles: []string{
					"Node.js Introduction & Setup",
					"Modules & NPM",
					"File System & Streams",
					"Building APIs with Express",
					"Databases & Deployment",
				},
			},
			{
				Name:     "javascript",
				Keywords: []string{"javascript", "js", "ecmascript"},
				Titles: []string{
					"JavaScript Basics & Syntax",
					"Functions & Scope",
					"Objects & Arrays",
					"DOM Manipulation",
					"Async JavaScript & Promises",
				},
			},
			{
				Name:     "python",
				Keywords: []string{"python", "django", "flask"},
				Titles: []string{
					"Python Setup & Syntax",
					"Data Types & Control Flow",
					"Functions & Modules",
					"Object-Oriented Python",
					"Working with Files & Libraries",
				},
			},
			{
				Name:     "web",
				Keywords: []string{"html", "css", "html5", "css3", "tailwind"},
				Titles: []string{
					"HTML Structure & Elements",
					"CSS Selectors & Styling",
					"Box Model & Layout",
					"Flexbox & Grid",
					"Responsive Design",
				},
			},
		},
		Fallback: append([]string(nil), defaultFallback...),
	}
}

// LoadCurricula reads tracks from a YAML file. A file without a fallback list
// gets the built-in one.
func LoadCurricula(path string) (Curricula, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Curricula{}, fmt.Errorf("read curriculum file: %w", err)
	}

	var c Curricula
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Curricula{}, fmt.Errorf("parse curriculum file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Curricula{}, fmt.Errorf("invalid curriculum file %s: %w", path, err)
	}
	if len(c.Fallback) == 0 {
		c.Fallback = append([]string(nil), defaultFallback...)
	}
	return c, nil
}

// Validate checks that every track can be matched and titled.
func (c Curricula) Validate() error {
	var errs []error
	for i, t := range c.Tracks {
		if len(t.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("track %d (%s): no keywords", i, t.Name))
		}
		if len(t.Titles) == 0 {
			errs = append(errs, fmt.Errorf("track %d (%s): no titles", i, t.Name))
		}
	}
	return errors.Join(errs...)
}

// TitlesFor returns the segment titles for query.
func (c Curricula) TitlesFor(query string) []string {
	q := strings.ToLower(query)
	for _, t := range c.Tracks {
		for _, kw := range t.Keywords {
			if containsWord(q, strings.ToLower(kw)) {
				return t.Titles
			}
		}
	}
	if len(c.Fallback) > 0 {
		return c.Fallback
	}
	return defaultFallback
}

// containsWord reports whether word occurs in text delimited by
// non-alphanumeric characters, so "js" does not match "json".
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from <= len(text)-len(word); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if isBoundary(text, start-1) && isBoundary(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
