package naming

import "testing"

func TestFormat(t *testing.T) {
	clip := Clip{
		Name:      "My_Video",
		Num:       7,
		Duration:  30,
		Timestamp: 95.4,
		Project:   "Demo",
	}

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"default padding", "{name}_part_{num:03d}", "My_Video_part_007.mp4"},
		{"plain num", "{name}_clip_{num}", "My_Video_clip_7.mp4"},
		{"wide padding", "{num:05d}", "00007.mp4"},
		{"duration and timestamp", "{name}_{duration}s_{timestamp}", "My_Video_30s_01m35s.mp4"},
		{"project", "{project}_{num:02d}", "Demo_07.mp4"},
		{"unknown placeholder untouched", "{name}_{weird}", "My_Video_{weird}.mp4"},
		{"empty pattern falls back", "", "My_Video_part_007.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.pattern, clip); got != tt.want {
				t.Fatalf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFormatOffset(t *testing.T) {
	tests := map[float64]string{
		0:      "00m00s",
		95.4:   "01m35s",
		3599:   "59m59s",
		3600:   "1h00m00s",
		7325.9: "2h02m05s",
	}
	for in, want := range tests {
		if got := FormatOffset(in); got != want {
			t.Fatalf("FormatOffset(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"My Cool Video!":        "My_Cool_Video",
		"a  b   c":              "a_b_c",
		"__already__clean__":    "already_clean",
		"weird:/chars? (here)":  "weirdchars_here",
		"dash-is-kept_10 parts": "dash-is-kept_10_parts",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := CleanFilename(in); got != want {
				t.Fatalf("CleanFilename(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
