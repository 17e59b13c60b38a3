// Package quality defines the output quality presets and their encoder
// settings. Presets map to explicit, typed settings instead of free-form
// option maps so unknown presets fail fast at configuration time.
package quality

import "fmt"

type Preset string

const (
	SD       Preset = "sd"
	HD       Preset = "hd"
	UHD      Preset = "4k"
	Original Preset = "original"
)

// Settings are the encoder parameters a preset maps to. Empty Bitrate or
// Resolution means no constraint is applied for that dimension.
type Settings struct {
	Bitrate      string
	Resolution   string
	EncodePreset string
	Description  string
}

var presetSettings = map[Preset]Settings{
	SD: {
		Bitrate:      "2000k",
		Resolution:   "854x480",
		EncodePreset: "fast",
		Description:  "Social SD (480p)",
	},
	HD: {
		Bitrate:      "5000k",
		Resolution:   "1920x1080",
		EncodePreset: "fast",
		Description:  "Social HD (1080p)",
	},
	UHD: {
		Bitrate:      "15000k",
		Resolution:   "3840x2160",
		EncodePreset: "slow",
		Description:  "Social 4K (2160p)",
	},
	Original: {
		EncodePreset: "fast",
		Description:  "Original quality",
	},
}

// aliases kept for settings files written by earlier releases.
var aliases = map[string]Preset{
	"youtube_sd": SD,
	"youtube_hd": HD,
	"youtube_4k": UHD,
	"low":        SD,
	"medium":     HD,
	"high":       UHD,
}

// ParsePreset resolves a preset name, accepting legacy aliases.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if _, ok := presetSettings[p]; ok {
		return p, nil
	}
	if p, ok := aliases[s]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown quality preset %q (want sd, hd, 4k or original)", s)
}

func (p Preset) Settings() Settings { return presetSettings[p] }

func (p Preset) String() string { return string(p) }
