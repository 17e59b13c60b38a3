package highlights

import (
	"testing"

	"github.com/forPelevin/vidsplit/internal/types"
)

func TestWeights_Validate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := DefaultWeights()
	bad.Motion = 0.5
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}

	neg := Weights{Motion: -0.1, Audio: 0.5, Face: 0.3, Color: 0.2, Text: 0.1}
	if err := neg.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestBoosts_Validate(t *testing.T) {
	if err := DefaultBoosts().Validate(); err != nil {
		t.Fatalf("default boosts must validate: %v", err)
	}

	neg := DefaultBoosts()
	neg.Audio = -0.5
	if err := neg.Validate(); err == nil {
		t.Fatal("expected error for negative boost factor")
	}

	// An edge factor above mid-video would rank intros over the body.
	flipped := DefaultBoosts()
	flipped.Edge = 1.5
	if err := flipped.Validate(); err == nil {
		t.Fatal("expected error for edge boost above mid-video boost")
	}
}

func TestScoreSamples_Bounds(t *testing.T) {
	features := []Features{
		{Timestamp: 0, Motion: 0, Audio: 0, Face: 0, Color: 0, Text: 0},
		{Timestamp: 50, Motion: 1, Audio: 1, Face: 1, Color: 1, Text: 1},
		{Timestamp: 99, Motion: 0.5, Audio: 0.9, Face: 0.2, Color: 0.4, Text: 0},
	}
	samples := ScoreSamples(features, 100, DefaultWeights(), DefaultBoosts())
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s.TotalScore < 0 || s.TotalScore > 1 {
			t.Fatalf("total score out of bounds: %+v", s)
		}
		if s.HighlightScore < 0 || s.HighlightScore > 1 {
			t.Fatalf("highlight score out of bounds: %+v", s)
		}
	}

	// All-max features saturate both scores at 1.
	if samples[1].TotalScore != 1 {
		t.Fatalf("expected saturated total score, got %v", samples[1].TotalScore)
	}
	if samples[1].HighlightScore != 1 {
		t.Fatalf("expected saturated highlight score, got %v", samples[1].HighlightScore)
	}
}

// The composition law must hold for arbitrary weights, not just the
// shipped constants.
func TestScoreSamples_CompositionLaw(t *testing.T) {
	w := Weights{Motion: 0.5, Audio: 0.2, Face: 0.1, Color: 0.1, Text: 0.1}
	if err := w.Validate(); err != nil {
		t.Fatalf("test weights invalid: %v", err)
	}
	b := Boosts{MidVideo: 2, Edge: 0.5, Audio: 0.5, Face: 1}

	f := Features{Timestamp: 50, Motion: 0.4, Audio: 0.5, Face: 0.2, Color: 0.1, Text: 0}
	samples := ScoreSamples([]Features{f}, 100, w, b)

	wantTotal := 0.4*0.5 + 0.5*0.2 + 0.2*0.1 + 0.1*0.1 // 0.33
	if diff := samples[0].TotalScore - wantTotal; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("total score = %v, want %v", samples[0].TotalScore, wantTotal)
	}

	// mid-video factor 2, audio boost 1+0.5*0.5, face boost 1+1*0.2.
	wantHighlight := wantTotal * 2 * 1.25 * 1.2 // 0.99, below the clamp
	if diff := samples[0].HighlightScore - wantHighlight; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("highlight score = %v, want %v", samples[0].HighlightScore, wantHighlight)
	}
}

func TestHighlightScore_PositionMultiplier(t *testing.T) {
	w := DefaultWeights()
	b := DefaultBoosts()
	const duration = 100.0

	// Identical features at different positions; only the time factor
	// should differ.
	base := Features{Motion: 0.5, Audio: 0, Face: 0, Color: 0.5, Text: 0}
	mk := func(ts float64) types.EngagementSample {
		f := base
		f.Timestamp = ts
		return ScoreSamples([]Features{f}, duration, w, b)[0]
	}

	edgeStart := mk(5) // first 10%
	middle := mk(50)   // middle 60%
	neutral := mk(15)  // between 10% and 20%
	edgeEnd := mk(95)  // last 10%

	if !(middle.HighlightScore > neutral.HighlightScore) {
		t.Fatalf("middle %v should outrank neutral %v", middle.HighlightScore, neutral.HighlightScore)
	}
	if !(neutral.HighlightScore > edgeStart.HighlightScore) {
		t.Fatalf("neutral %v should outrank edge %v", neutral.HighlightScore, edgeStart.HighlightScore)
	}
	if edgeStart.HighlightScore != edgeEnd.HighlightScore {
		t.Fatalf("both edges should score equally: %v vs %v", edgeStart.HighlightScore, edgeEnd.HighlightScore)
	}
}
