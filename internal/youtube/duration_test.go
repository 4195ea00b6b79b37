package youtube

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"Full", "PT1H2M3S", 3723},
		{"Minutes only", "PT45M", 2700},
		{"Hours only", "PT2H", 7200},
		{"Seconds only", "PT59S", 59},
		{"Hours and seconds", "PT1H5S", 3605},
		{"Empty PT", "PT", 0},
		{"Garbage", "garbage", 0},
		{"Empty string", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.raw); got != tt.want {
				t.Errorf("ParseDuration(%q) = %d; want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "PT"},
		{59, "PT59S"},
		{60, "PT1M"},
		{3600, "PT1H"},
		{3723, "PT1H2M3S"},
		{3605, "PT1H5S"},
		{-5, "PT"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %s; want %s", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDuration_round_trip(t *testing.T) {
	for _, raw := range []string{"PT1H2M3S", "PT45M", "PT0H30M0S", "PT2H0M", "PT0S", "PT10H59M59S"} {
		total := ParseDuration(raw)
		if back := ParseDuration(FormatDuration(total)); back != total {
			t.Errorf("round trip %q: %d -> %q -> %d", raw, total, FormatDuration(total), back)
		}
	}
}

func TestIsLongVideo(t *testing.T) {
	if IsLongVideo("PT29M59S") {
		t.Error("PT29M59S should not be long")
	}
	if !IsLongVideo("PT30M0S") {
		t.Error("PT30M0S should be long")
	}
	if !IsLongVideo("PT1H") {
		t.Error("PT1H should be long")
	}
	if IsLongVideo("nonsense") {
		t.Error("malformed duration should not be long")
	}
}
