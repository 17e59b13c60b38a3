package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/forPelevin/vidsplit/internal/types"
)

// probeResult matches the ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

func parseProbeOutput(path string, out []byte) (types.MediaInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(out, &probe); err != nil {
		return types.MediaInfo{}, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}

	info := types.MediaInfo{Path: path}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return types.MediaInfo{}, fmt.Errorf("no valid duration for %s", path)
	}
	info.Duration = dur

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
			info.FPS = parseFrameRate(stream.RFrameRate)
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return types.MediaInfo{}, fmt.Errorf("no video stream in %s", path)
	}
	return info, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001")
// into frames per second.
func parseFrameRate(s string) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
