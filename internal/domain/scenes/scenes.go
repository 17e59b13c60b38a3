// Package scenes locates content discontinuities in a video by comparing
// structural similarity between consecutive sampled frames. Frames arrive
// already downsampled to grayscale; the detector never touches full
// resolution video, which keeps long inputs tractable.
package scenes

import (
	"github.com/forPelevin/vidsplit/internal/types"
)

const (
	DefaultThreshold        = 0.3
	DefaultMinSceneDuration = 10.0
	DefaultMinGap           = 30.0
	DefaultSampleStride     = 30
)

type Options struct {
	// Threshold is the similarity below which a cut candidate is recorded.
	// Lower values mean less sensitive detection.
	Threshold float64
	// MinSceneDuration discards candidates closer than this to the start
	// of the video, in seconds.
	MinSceneDuration float64
	// MinGap is the minimum spacing between accepted cuts, in seconds.
	MinGap float64
}

func DefaultOptions() Options {
	return Options{
		Threshold:        DefaultThreshold,
		MinSceneDuration: DefaultMinSceneDuration,
		MinGap:           DefaultMinGap,
	}
}

// Detect returns the timestamps of accepted scene cuts, sorted ascending.
// An empty result means the caller should fall back to fixed-interval
// splitting; it is never an error.
//
// Suppression is greedy left-to-right: a candidate closer than MinGap to
// the previously accepted cut is discarded. No scene in the result is
// shorter than MinGap.
func Detect(frames []types.GrayFrame, opts Options) []float64 {
	if len(frames) < 2 {
		return nil
	}

	var candidates []float64
	prev := frames[0]
	for _, f := range frames[1:] {
		if f.Width != prev.Width || f.Height != prev.Height {
			prev = f
			continue
		}
		if SSIM(prev.Pix, f.Pix) < opts.Threshold && f.Timestamp >= opts.MinSceneDuration {
			candidates = append(candidates, f.Timestamp)
		}
		prev = f
	}

	var accepted []float64
	last := 0.0
	for _, ts := range candidates {
		if ts-last >= opts.MinGap {
			accepted = append(accepted, ts)
			last = ts
		}
	}
	return accepted
}

// SSIM computes the global structural similarity index between two equally
// sized 8-bit grayscale images, using the standard stabilizing constants
// for dynamic range 255. Result is in [-1,1]; 1 means identical.
func SSIM(a, b []byte) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	const (
		c1 = (0.01 * 255) * (0.01 * 255)
		c2 = (0.03 * 255) * (0.03 * 255)
	)

	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += float64(a[i])
		sumB += float64(b[i])
	}
	muA := sumA / n
	muB := sumB / n

	var varA, varB, cov float64
	for i := range a {
		da := float64(a[i]) - muA
		db := float64(b[i]) - muB
		varA += da * da
		varB += db * db
		cov += da * db
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*muA*muB + c1) * (2*cov + c2)
	den := (muA*muA + muB*muB + c1) * (varA + varB + c2)
	return num / den
}
