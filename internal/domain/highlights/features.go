package highlights

import (
	"math"

	"github.com/forPelevin/vidsplit/internal/types"
)

// Normalization divisors for the raw frame statistics. Pixel-variance
// magnitudes depend only on bit depth, not resolution, so these hold for
// any downsampled frame size.
const (
	motionVarianceScale   = 10000.0
	vibrancyVarianceScale = 5000.0
	audioRMSScale         = 1000.0
)

// MotionScore estimates motion/texture at a frame from grayscale intensity
// variance, normalized to [0,1].
func MotionScore(f types.GrayFrame) float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	return clamp01(variance(f.Pix) / motionVarianceScale)
}

// ColorVibrancy scores color richness from the variance of HSV saturation
// and value across the frame, normalized to [0,1].
func ColorVibrancy(f types.RGBFrame) float64 {
	n := len(f.Pix) / 3
	if n == 0 {
		return 0
	}

	sat := make([]byte, n)
	val := make([]byte, n)
	for i := 0; i < n; i++ {
		r, g, b := f.Pix[i*3], f.Pix[i*3+1], f.Pix[i*3+2]
		maxC := max3(r, g, b)
		minC := min3(r, g, b)
		val[i] = maxC
		if maxC > 0 {
			sat[i] = byte(int(maxC-minC) * 255 / int(maxC))
		}
	}

	vibrancy := (variance(sat) + variance(val)) / 2
	return clamp01(vibrancy / vibrancyVarianceScale)
}

// AudioEnergy normalizes a window RMS (samples in [-1,1]) to [0,1].
func AudioEnergy(rms float64) float64 {
	return clamp01(rms * audioRMSScale)
}

// Grayscale converts an RGB frame to grayscale using BT.601 luma weights.
func Grayscale(f types.RGBFrame) types.GrayFrame {
	n := len(f.Pix) / 3
	pix := make([]byte, n)
	for i := 0; i < n; i++ {
		r := float64(f.Pix[i*3])
		g := float64(f.Pix[i*3+1])
		b := float64(f.Pix[i*3+2])
		pix[i] = byte(math.Round(0.299*r + 0.587*g + 0.114*b))
	}
	return types.GrayFrame{Timestamp: f.Timestamp, Width: f.Width, Height: f.Height, Pix: pix}
}

func variance(pix []byte) float64 {
	n := float64(len(pix))
	var sum float64
	for _, p := range pix {
		sum += float64(p)
	}
	mean := sum / n

	var acc float64
	for _, p := range pix {
		d := float64(p) - mean
		acc += d * d
	}
	return acc / n
}

func max3(a, b, c byte) byte {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c byte) byte {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
