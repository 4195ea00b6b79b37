package course

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const timeToken = `(\d{1,2}:\d{2}(?::\d{2})?)`

// chapterPatterns are applied in order. A line may match several of them;
// matches sharing an offset collapse to the earliest pattern, so the more
// specific layouts come first.
var chapterPatterns = []*regexp.Regexp{
	// [12:30] Title
	regexp.MustCompile(`(?m)^[ \t]*\[` + timeToken + `\][ \t]*(.*)$`),
	// (12:30) Title
	regexp.MustCompile(`(?m)^[ \t]*\(` + timeToken + `\)[ \t]*(.*)$`),
	// 12:30 - Title
	regexp.MustCompile(`(?m)^[ \t]*` + timeToken + `[ \t]*[-–—|][ \t]*(.*)$`),
	// • 12:30 Title
	regexp.MustCompile(`(?m)^[ \t]*[-•*▶►][ \t]*` + timeToken + `[ \t]+(.*)$`),
	// 12:30 Title
	regexp.MustCompile(`(?m)^[ \t]*` + timeToken + `[ \t]+(.*)$`),
}

// ExtractChapters scans description for chapter lines and returns markers
// ordered by offset with duplicate offsets removed (first match wins).
func ExtractChapters(description string) []ChapterMarker {
	if strings.TrimSpace(description) == "" {
		return nil
	}

	var found []ChapterMarker
	for _, re := range chapterPatterns {
		for _, m := range re.FindAllStringSubmatch(description, -1) {
			offset, ok := parseTimestamp(m[1])
			if !ok {
				continue
			}
			title := cleanChapterTitle(m[2])
			if title == "" {
				continue
			}
			found = append(found, ChapterMarker{Offset: offset, Title: title})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Offset < found[j].Offset })

	out := make([]ChapterMarker, 0, len(found))
	for _, c := range found {
		if n := len(out); n > 0 && out[n-1].Offset == c.Offset {
			continue
		}
		out = append(out, c)
	}
	return out
}

// parseTimestamp converts M:SS, MM:SS or HH:MM:SS into seconds.
func parseTimestamp(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

func cleanChapterTitle(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "-–—|:"))
}
