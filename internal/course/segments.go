package course

import "fmt"

// EqualSegmentCount is the number of segments synthesized when a video has
// no chapter markers.
const EqualSegmentCount = 5

// BuildSegments splits a video of total seconds into segments. Chapters
// parsed from description are used when present; otherwise the video is cut
// into EqualSegmentCount equal parts titled from the curriculum matching query.
func BuildSegments(description string, total int, query string, curricula Curricula) []Segment {
	if segs := SegmentsFromChapters(ExtractChapters(description), total); len(segs) > 0 {
		return segs
	}
	return EqualSegments(total, curricula.TitlesFor(query))
}

// SegmentsFromChapters turns ordered markers into contiguous segments, each
// ending where the next chapter starts and the last ending at total.
// Markers at or beyond total are ignored.
func SegmentsFromChapters(markers []ChapterMarker, total int) []Segment {
	if total <= 0 {
		return nil
	}
	valid := make([]ChapterMarker, 0, len(markers))
	for _, m := range markers {
		if m.Offset < total {
			valid = append(valid, m)
		}
	}

	segs := make([]Segment, 0, len(valid))
	for i, m := range valid {
		end := total
		if i+1 < len(valid) {
			end = valid[i+1].Offset
		}
		if m.Offset >= end {
			continue
		}
		segs = append(segs, Segment{Start: m.Offset, End: end, Title: m.Title})
	}
	return segs
}

// EqualSegments cuts total into EqualSegmentCount parts of total/EqualSegmentCount
// seconds; the last part absorbs the remainder. Missing titles become "Part n".
// A video shorter than EqualSegmentCount seconds yields a single segment.
func EqualSegments(total int, titles []string) []Segment {
	if total <= 0 {
		return nil
	}
	width := total / EqualSegmentCount
	if width == 0 {
		return []Segment{{Start: 0, End: total, Title: partTitle(titles, 0)}}
	}

	segs := make([]Segment, 0, EqualSegmentCount)
	for i := 0; i < EqualSegmentCount; i++ {
		start := i * width
		end := start + width
		if i == EqualSegmentCount-1 {
			end = total
		}
		segs = append(segs, Segment{Start: start, End: end, Title: partTitle(titles, i)})
	}
	return segs
}

func partTitle(titles []string, i int) string {
	if i < len(titles) && titles[i] != "" {
		return titles[i]
	}
	return fmt.Sprintf("Part %d", i+1)
}
