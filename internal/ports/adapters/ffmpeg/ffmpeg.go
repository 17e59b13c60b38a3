// Package ffmpeg adapts the external ffmpeg/ffprobe binaries to the core
// ports. Command execution is injectable so the encode/retry and sampling
// logic is testable without spawning processes.
package ffmpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forPelevin/vidsplit/internal/ports"
	"github.com/forPelevin/vidsplit/internal/quality"
	"github.com/forPelevin/vidsplit/internal/types"
)

const (
	// Frames are downsampled to this size before any similarity or
	// feature computation.
	sampleWidth  = 320
	sampleHeight = 180

	audioSampleRate = 16000
)

// runner executes one external command and returns its captured output.
type runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger

	// run captures combined output (encoding, where stderr is the story);
	// capture returns stdout only (probing and raw-frame sampling).
	run     runner
	capture runner
}

func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		log:     log.With().Str("component", "ffmpeg").Logger(),
		run: func(ctx context.Context, bin string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, bin, args...).CombinedOutput()
		},
		capture: func(ctx context.Context, bin string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, bin, args...).Output()
		},
	}
}

// EncodeSegment cuts [start, start+duration) of src into out. Audio is
// always re-encoded with explicit codec/rate/channels; copying audio across
// a mid-stream cut produces corrupt output. If the first attempt exits
// non-zero it is retried exactly once with an audio-resampling filter,
// which recovers a known class of audio-timestamp-discontinuity failures.
func (a *Adapter) EncodeSegment(ctx context.Context, src string, start, duration float64, out string, preset quality.Preset) error {
	if duration < 0.001 {
		duration = 0.001
	}

	args := a.encodeArgs(src, start, duration, out, preset, false)
	a.log.Debug().Strs("args", args).Msg("encoding segment")

	b, err := a.run(ctx, a.ffmpeg, args...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	a.log.Warn().Err(err).Str("output", out).Msg("encode failed, retrying with audio resample")
	retryArgs := a.encodeArgs(src, start, duration, out, preset, true)
	b2, err2 := a.run(ctx, a.ffmpeg, retryArgs...)
	if err2 == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Never leave a partial file where metadata could reference it.
	_ = os.Remove(out)
	return fmt.Errorf("%w: %v (first attempt: %v)\n%s\n%s",
		ports.ErrEncodeFailed, err2, err, strings.TrimSpace(string(b)), strings.TrimSpace(string(b2)))
}

func (a *Adapter) encodeArgs(src string, start, duration float64, out string, preset quality.Preset, resampleAudio bool) []string {
	settings := preset.Settings()

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", fmtSeconds(start),
		"-t", fmtSeconds(duration),
		"-i", src,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", settings.EncodePreset,
		"-c:a", "aac",
		"-b:a", "160k",
		"-ar", "44100",
		"-ac", "2",
	}
	if settings.Bitrate != "" {
		args = append(args, "-b:v", settings.Bitrate)
	}
	if settings.Resolution != "" {
		args = append(args, "-vf", "scale="+strings.ReplaceAll(settings.Resolution, "x", ":"))
	}
	if resampleAudio {
		args = append(args, "-af", "aresample=async=1:first_pts=0")
	}
	return append(args, out)
}

// Probe reads duration, frame rate, dimensions and audio presence from the
// container via ffprobe's JSON output.
func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	out, err := a.capture(ctx, a.ffprobe, args...)
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("%w: ffprobe %s: %v", ports.ErrSourceUnreadable, path, err)
	}
	info, err := parseProbeOutput(path, out)
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("%w: %v", ports.ErrSourceUnreadable, err)
	}
	return info, nil
}

// SampleGray decodes every stride-th frame, downsampled to grayscale, by
// streaming rawvideo over a pipe. Timestamps are derived from the probed
// frame rate.
func (a *Adapter) SampleGray(ctx context.Context, path string, stride int) ([]types.GrayFrame, error) {
	if stride <= 0 {
		stride = 1
	}
	info, err := a.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	fps := info.FPS
	if fps <= 0 {
		fps = 30
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d)),scale=%d:%d", stride, sampleWidth, sampleHeight),
		"-vsync", "vfr",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-",
	}
	raw, err := a.capture(ctx, a.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("sample gray frames: %w", err)
	}

	frameSize := sampleWidth * sampleHeight
	n := len(raw) / frameSize
	frames := make([]types.GrayFrame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, types.GrayFrame{
			Timestamp: float64(i*stride) / fps,
			Width:     sampleWidth,
			Height:    sampleHeight,
			Pix:       raw[i*frameSize : (i+1)*frameSize],
		})
	}
	a.log.Debug().Int("frames", len(frames)).Str("input", path).Msg("sampled gray frames")
	return frames, nil
}

// SampleRGB decodes frames at the given sampling rate, downsampled to
// packed RGB.
func (a *Adapter) SampleRGB(ctx context.Context, path string, sampleHz float64) ([]types.RGBFrame, error) {
	if sampleHz <= 0 {
		sampleHz = 1
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("fps=%s,scale=%d:%d", strconv.FormatFloat(sampleHz, 'f', -1, 64), sampleWidth, sampleHeight),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
	raw, err := a.capture(ctx, a.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("sample rgb frames: %w", err)
	}

	frameSize := sampleWidth * sampleHeight * 3
	n := len(raw) / frameSize
	frames := make([]types.RGBFrame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, types.RGBFrame{
			Timestamp: float64(i) / sampleHz,
			Width:     sampleWidth,
			Height:    sampleHeight,
			Pix:       raw[i*frameSize : (i+1)*frameSize],
		})
	}
	a.log.Debug().Int("frames", len(frames)).Str("input", path).Msg("sampled rgb frames")
	return frames, nil
}

// WindowRMS decodes mono 16k PCM and reduces it to one RMS value per
// window. Sources without an audio track return an empty result.
func (a *Adapter) WindowRMS(ctx context.Context, path string, windowSec float64) ([]float64, error) {
	info, err := a.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if !info.HasAudio {
		return nil, nil
	}
	if windowSec <= 0 {
		windowSec = 1
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(audioSampleRate),
		"-f", "s16le",
		"-",
	}
	raw, err := a.capture(ctx, a.ffmpeg, args...)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return windowRMS(raw, int(float64(audioSampleRate)*windowSec)), nil
}

// windowRMS computes per-window RMS over little-endian s16 samples
// normalized to [-1,1].
func windowRMS(raw []byte, window int) []float64 {
	if window <= 0 {
		window = 1
	}
	total := len(raw) / 2
	var out []float64
	for off := 0; off < total; off += window {
		end := off + window
		if end > total {
			end = total
		}
		var acc float64
		for i := off; i < end; i++ {
			s := float64(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768.0
			acc += s * s
		}
		out = append(out, math.Sqrt(acc/float64(end-off)))
	}
	return out
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

var (
	_ ports.Encoder      = (*Adapter)(nil)
	_ ports.Prober       = (*Adapter)(nil)
	_ ports.FrameSampler = (*Adapter)(nil)
	_ ports.AudioSampler = (*Adapter)(nil)
)
