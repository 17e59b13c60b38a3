package ports

import (
	"context"
	"errors"

	"github.com/forPelevin/vidsplit/internal/quality"
	"github.com/forPelevin/vidsplit/internal/types"
)

// Contract-level error conditions. Adapters wrap these so callers can
// classify failures with errors.Is without depending on adapter internals.
var (
	// ErrSourceUnreadable means the input cannot be opened or decoded at
	// all; the whole-video operation aborts.
	ErrSourceUnreadable = errors.New("source video unreadable")

	// ErrEncodeFailed means the transcoder failed for one segment after
	// all attempts; the caller skips the segment and continues.
	ErrEncodeFailed = errors.New("segment encode failed")
)

// Encoder cuts one segment of a source video into an output file. The
// implementation owns the retry policy for audio-sync failures and must not
// leave a partial output file behind on failure.
type Encoder interface {
	EncodeSegment(ctx context.Context, src string, start, duration float64, out string, preset quality.Preset) error
}

// Prober reads container metadata from a source video.
type Prober interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
}

// FrameSampler extracts downsampled frames from a source video. Sampling
// never decodes at full resolution; that is what keeps scene detection and
// highlight analysis tractable on long inputs.
type FrameSampler interface {
	// SampleGray returns every stride-th frame as reduced grayscale.
	SampleGray(ctx context.Context, path string, stride int) ([]types.GrayFrame, error)
	// SampleRGB returns frames sampled at the given rate in Hz.
	SampleRGB(ctx context.Context, path string, sampleHz float64) ([]types.RGBFrame, error)
}

// AudioSampler reduces a source's audio track to per-window RMS energy
// values (samples normalized to [-1,1]). Sources without audio yield an
// empty slice, not an error.
type AudioSampler interface {
	WindowRMS(ctx context.Context, path string, windowSec float64) ([]float64, error)
}
