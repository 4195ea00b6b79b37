package course

import (
	"strconv"
	"strings"

	"course-builder/internal/youtube"
)

// candidateSet collects detailed videos for one request, keeping the first
// occurrence of each id in insertion order. It is not shared across requests.
type candidateSet struct {
	byID  map[string]youtube.Candidate
	order []string
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byID: make(map[string]youtube.Candidate)}
}

// Add stores c unless its id is already present. It reports whether c was added.
func (s *candidateSet) Add(c youtube.Candidate) bool {
	if c.ID == "" {
		return false
	}
	if _, exists := s.byID[c.ID]; exists {
		return false
	}
	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)
	return true
}

// Len returns the number of distinct candidates.
func (s *candidateSet) Len() int {
	return len(s.order)
}

// Best returns the long video with the highest view count. Ties go to the
// candidate added first.
func (s *candidateSet) Best() (youtube.Candidate, bool) {
	var (
		best      youtube.Candidate
		bestViews int64
		found     bool
	)
	for _, id := range s.order {
		c := s.byID[id]
		if !youtube.IsLongVideo(c.Duration) {
			continue
		}
		views := parseViewCount(c.ViewCount)
		if !found || views > bestViews {
			best, bestViews, found = c, views, true
		}
	}
	return best, found
}

// parseViewCount reads the provider's decimal string; anything unparseable counts as 0.
func parseViewCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
