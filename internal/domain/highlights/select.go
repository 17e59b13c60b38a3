package highlights

import (
	"math"
	"sort"

	"github.com/forPelevin/vidsplit/internal/types"
)

const (
	DefaultMaxClips = 10

	// candidatePool caps how many top-scored samples are considered.
	candidatePool = 20
	// minSelectedClip discards clips that end up shorter than this after
	// clamping to the video boundaries, in seconds.
	minSelectedClip = 10.0
	// dedupWindow is the minimum spacing between selected candidate
	// timestamps, in seconds.
	dedupWindow = 10.0
)

// SelectClips picks up to maxClips non-overlapping highlight ranges from
// scored samples. Candidates are walked greedily in descending score order;
// this is a heuristic ranking, not optimal interval packing. The sort is
// stable so ties resolve by input order, keeping runs reproducible.
//
// Each selected clip is centered on its candidate timestamp with a duration
// chosen by score tier, then clamped to the video boundaries. The result is
// sorted by start time for playback-order consumption.
func SelectClips(samples []types.EngagementSample, videoDuration float64, maxClips int) []types.TimeRange {
	if len(samples) == 0 || videoDuration <= 0 {
		return nil
	}
	if maxClips <= 0 {
		maxClips = DefaultMaxClips
	}

	ranked := make([]types.EngagementSample, len(samples))
	copy(ranked, samples)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HighlightScore > ranked[j].HighlightScore
	})
	if len(ranked) > candidatePool {
		ranked = ranked[:candidatePool]
	}

	var selected []types.TimeRange
	var usedTimestamps []float64

	for _, cand := range ranked {
		if tooClose(cand.Timestamp, usedTimestamps) {
			continue
		}

		clipDur := tierDuration(cand.HighlightScore)
		start := math.Max(0, cand.Timestamp-clipDur/2)
		end := math.Min(videoDuration, start+clipDur)
		if end-start < minSelectedClip {
			continue
		}

		selected = append(selected, types.TimeRange{
			Start: start,
			End:   end,
			Score: cand.HighlightScore,
		})
		usedTimestamps = append(usedTimestamps, cand.Timestamp)

		if len(selected) >= maxClips {
			break
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Start < selected[j].Start
	})
	return selected
}

// tierDuration picks a clip length from the candidate's score tier:
// strong moments get a standard short clip, medium ones a punchier cut,
// weaker ones more surrounding context.
func tierDuration(score float64) float64 {
	switch {
	case score > 0.7:
		return 30
	case score > 0.5:
		return 15
	default:
		return 45
	}
}

func tooClose(ts float64, used []float64) bool {
	for _, u := range used {
		if math.Abs(ts-u) < dedupWindow {
			return true
		}
	}
	return false
}
