// Package cutplan builds and validates the ordered list of time ranges a
// source video is cut into. Ranges always cover contiguous source time,
// sorted ascending with no overlap.
//
// Minimum-length policy: a trailing range shorter than the configured
// minimum is dropped, in both the fixed-interval and scene-detected paths.
// The one exception is a source shorter than the interval itself, which
// yields a single full-length range so a readable video always produces at
// least one clip.
package cutplan

import (
	"fmt"

	"github.com/forPelevin/vidsplit/internal/types"
)

// DefaultMinLength is the minimum clip length in seconds.
const DefaultMinLength = 10.0

// FixedInterval splits [0, duration) into interval-sized ranges. The final
// range ends exactly at duration; if it is shorter than minLen it is
// dropped, unless it is the only range.
func FixedInterval(duration, interval, minLen float64) []types.TimeRange {
	if duration <= 0 || interval <= 0 {
		return nil
	}

	var plan []types.TimeRange
	for start := 0.0; start < duration; start += interval {
		end := start + interval
		if end > duration {
			end = duration
		}
		plan = append(plan, types.TimeRange{Start: start, End: end})
	}

	return dropShortTail(plan, minLen)
}

// FromSceneCuts converts detected cut timestamps into ranges bounded by
// [0, duration]. Ranges shorter than minLen are dropped. Cut timestamps are
// assumed sorted ascending, as the scene detector emits them.
func FromSceneCuts(cuts []float64, duration, minLen float64) []types.TimeRange {
	if duration <= 0 {
		return nil
	}

	boundaries := make([]float64, 0, len(cuts)+2)
	boundaries = append(boundaries, 0)
	for _, c := range cuts {
		if c > 0 && c < duration {
			boundaries = append(boundaries, c)
		}
	}
	boundaries = append(boundaries, duration)

	var plan []types.TimeRange
	for i := 0; i < len(boundaries)-1; i++ {
		r := types.TimeRange{Start: boundaries[i], End: boundaries[i+1]}
		if r.Duration() >= minLen {
			plan = append(plan, r)
		}
	}
	return plan
}

// Validate checks the cut-plan invariants: ascending, non-overlapping,
// positive-length ranges, each at least minLen long.
func Validate(plan []types.TimeRange, minLen float64) error {
	prevEnd := 0.0
	for i, r := range plan {
		if r.Start < 0 {
			return fmt.Errorf("range %d: negative start %.3f", i, r.Start)
		}
		if r.End <= r.Start {
			return fmt.Errorf("range %d: end %.3f not after start %.3f", i, r.End, r.Start)
		}
		if i > 0 && r.Start < prevEnd {
			return fmt.Errorf("range %d: start %.3f overlaps previous end %.3f", i, r.Start, prevEnd)
		}
		if r.Duration() < minLen {
			return fmt.Errorf("range %d: length %.3f below minimum %.3f", i, r.Duration(), minLen)
		}
		prevEnd = r.End
	}
	return nil
}

func dropShortTail(plan []types.TimeRange, minLen float64) []types.TimeRange {
	if len(plan) <= 1 {
		return plan
	}
	last := plan[len(plan)-1]
	if last.Duration() < minLen {
		return plan[:len(plan)-1]
	}
	return plan
}
