package youtube

import (
	"regexp"
	"strconv"
	"strings"
)

// LongVideoThreshold is the minimum length, in seconds, of a "long" video.
const LongVideoThreshold = 30 * 60

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts the provider's PT#H#M#S notation into seconds.
// Missing components count as zero; input that does not match yields 0.
func ParseDuration(raw string) int {
	m := isoDurationRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}

// FormatDuration is the inverse of ParseDuration. Zero components are
// omitted, so 0 formats as "PT" and 3600 as "PT1H".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	var b strings.Builder
	b.WriteString("PT")
	if h := seconds / 3600; h > 0 {
		b.WriteString(strconv.Itoa(h))
		b.WriteByte('H')
	}
	if m := (seconds % 3600) / 60; m > 0 {
		b.WriteString(strconv.Itoa(m))
		b.WriteByte('M')
	}
	if s := seconds % 60; s > 0 {
		b.WriteString(strconv.Itoa(s))
		b.WriteByte('S')
	}
	return b.String()
}

// IsLongVideo reports whether raw is at least LongVideoThreshold long.
func IsLongVideo(raw string) bool {
	return ParseDuration(raw) >= LongVideoThreshold
}
