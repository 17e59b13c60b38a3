// Package highlights computes per-timestamp engagement scores from visual
// and audio features and derives a ranked set of non-overlapping "best
// moment" time ranges. The weights and boost factors are empirical
// configuration, kept injectable so the composition law can be tested
// independently of the shipped values.
package highlights

import (
	"fmt"
	"math"

	"github.com/forPelevin/vidsplit/internal/types"
)

// Weights blend the five engagement sub-scores. They must sum to 1.0.
type Weights struct {
	Motion float64
	Audio  float64
	Face   float64
	Color  float64
	Text   float64
}

func DefaultWeights() Weights {
	return Weights{
		Motion: 0.30,
		Audio:  0.25,
		Face:   0.20,
		Color:  0.15,
		Text:   0.10,
	}
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"motion": w.Motion, "audio": w.Audio, "face": w.Face,
		"color": w.Color, "text": w.Text,
	} {
		if v < 0 {
			return fmt.Errorf("engagement weight %s is negative: %v", name, v)
		}
	}
	sum := w.Motion + w.Audio + w.Face + w.Color + w.Text
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("engagement weights sum to %v, want 1.0", sum)
	}
	return nil
}

// Boosts are the multiplicative modifiers applied to the engagement score
// when ranking highlights.
type Boosts struct {
	// MidVideo multiplies samples within the middle 60% of the video.
	MidVideo float64
	// Edge multiplies samples within the first or last 10%.
	Edge float64
	// Audio scales the audio-energy boost: 1 + Audio*audioEnergy.
	Audio float64
	// Face scales the face-presence boost: 1 + Face*facePresence.
	Face float64
}

func DefaultBoosts() Boosts {
	return Boosts{
		MidVideo: 1.2,
		Edge:     0.8,
		Audio:    0.5,
		Face:     0.3,
	}
}

func (b Boosts) Validate() error {
	for name, v := range map[string]float64{
		"mid_video": b.MidVideo, "edge": b.Edge,
		"audio": b.Audio, "face": b.Face,
	} {
		if v < 0 {
			return fmt.Errorf("boost factor %s is negative: %v", name, v)
		}
	}
	if b.Edge > b.MidVideo {
		return fmt.Errorf("edge boost %v exceeds mid-video boost %v", b.Edge, b.MidVideo)
	}
	return nil
}

// Features are the normalized [0,1] sub-scores observed at one timestamp.
type Features struct {
	Timestamp float64
	Motion    float64
	Audio     float64
	Face      float64
	Color     float64
	Text      float64
}

// ScoreSamples folds raw features into engagement samples: the weighted
// total plus the boosted, position-adjusted highlight score used for
// ranking. Both scores are clamped to [0,1].
func ScoreSamples(features []Features, videoDuration float64, w Weights, b Boosts) []types.EngagementSample {
	samples := make([]types.EngagementSample, 0, len(features))
	for _, f := range features {
		total := f.Motion*w.Motion + f.Audio*w.Audio + f.Face*w.Face +
			f.Color*w.Color + f.Text*w.Text
		total = clamp01(total)

		s := types.EngagementSample{
			Timestamp:     f.Timestamp,
			MotionScore:   f.Motion,
			AudioEnergy:   f.Audio,
			FacePresence:  f.Face,
			ColorVibrancy: f.Color,
			TextPresence:  f.Text,
			TotalScore:    total,
		}
		s.HighlightScore = highlightScore(s, videoDuration, b)
		samples = append(samples, s)
	}
	return samples
}

func highlightScore(s types.EngagementSample, duration float64, b Boosts) float64 {
	timeFactor := 1.0
	if duration > 0 {
		switch {
		case s.Timestamp >= 0.2*duration && s.Timestamp <= 0.8*duration:
			timeFactor = b.MidVideo
		case s.Timestamp <= 0.1*duration || s.Timestamp >= 0.9*duration:
			timeFactor = b.Edge
		}
	}

	audioBoost := 1.0 + b.Audio*s.AudioEnergy
	faceBoost := 1.0 + b.Face*s.FacePresence

	return clamp01(s.TotalScore * timeFactor * audioBoost * faceBoost)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
