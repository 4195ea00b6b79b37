package course

import "course-builder/internal/youtube"

// Difficulty is the ordinal level assigned to a result.
type Difficulty int

const (
	Beginner     Difficulty = 0
	Intermediate Difficulty = 1
	Advanced     Difficulty = 2
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Advanced:
		return "advanced"
	default:
		return "intermediate"
	}
}

// ChapterMarker is a chapter parsed from a video description.
type ChapterMarker struct {
	Offset int // seconds from the start of the video
	Title  string
}

// Segment is a time range of a video presented as one learning unit.
// Start < End always holds for segments produced by this package.
type Segment struct {
	Start int
	End   int
	Title string
}

// VideoResult is one entry of the course returned to the client. StartTime
// and EndTime are set when the entry is a segment rather than a whole video.
type VideoResult struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	VideoTitle   string             `json:"videoTitle"`
	Description  string             `json:"description"`
	ChannelTitle string             `json:"channelTitle"`
	PublishedAt  string             `json:"publishedAt"`
	Thumbnails   youtube.Thumbnails `json:"thumbnails"`
	Duration     string             `json:"duration"`
	ViewCount    string             `json:"viewCount"`
	Difficulty   Difficulty         `json:"difficulty"`
	Part         int                `json:"part,omitempty"`
	StartTime    *int               `json:"startTime,omitempty"`
	EndTime      *int               `json:"endTime,omitempty"`
}
