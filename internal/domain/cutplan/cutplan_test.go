package cutplan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/vidsplit/internal/types"
)

func TestFixedInterval_CoversWithoutGaps(t *testing.T) {
	durations := []float64{29, 30, 95, 100, 3600.5}
	intervals := []float64{15, 30, 60}

	for _, d := range durations {
		for _, iv := range intervals {
			plan := FixedInterval(d, iv, 0)
			require.NotEmpty(t, plan, "duration=%v interval=%v", d, iv)

			assert.Equal(t, 0.0, plan[0].Start)
			assert.Equal(t, d, plan[len(plan)-1].End, "last range must end at duration")
			for i := 1; i < len(plan); i++ {
				assert.Equal(t, plan[i-1].End, plan[i].Start, "no gaps or overlaps")
			}
			for _, r := range plan {
				assert.LessOrEqual(t, r.Duration(), iv+1e-9)
			}
		}
	}
}

func TestFixedInterval_DropsShortTrailingRange(t *testing.T) {
	// 95s at 30s intervals with 10s minimum: the 5s tail is dropped.
	plan := FixedInterval(95, 30, 10)
	require.Len(t, plan, 3)
	assert.Equal(t, 90.0, plan[len(plan)-1].End)

	// Without a minimum, the 5s tail survives.
	plan = FixedInterval(95, 30, 0)
	require.Len(t, plan, 4)
	assert.Equal(t, types.TimeRange{Start: 90, End: 95}, plan[3])
}

func TestFixedInterval_ShortVideoKeepsSingleRange(t *testing.T) {
	plan := FixedInterval(5, 30, 10)
	require.Len(t, plan, 1)
	assert.Equal(t, types.TimeRange{Start: 0, End: 5}, plan[0])
}

func TestFixedInterval_InvalidInputs(t *testing.T) {
	assert.Nil(t, FixedInterval(0, 30, 10))
	assert.Nil(t, FixedInterval(-1, 30, 10))
	assert.Nil(t, FixedInterval(100, 0, 10))
}

func TestFromSceneCuts(t *testing.T) {
	// Cuts at 40 and 70 in a 100s video, 10s minimum: three ranges.
	plan := FromSceneCuts([]float64{40, 70}, 100, 10)
	require.Equal(t, []types.TimeRange{
		{Start: 0, End: 40},
		{Start: 40, End: 70},
		{Start: 70, End: 100},
	}, plan)
}

func TestFromSceneCuts_DropsShortRanges(t *testing.T) {
	// The 95..100 tail is below the minimum and is dropped.
	plan := FromSceneCuts([]float64{40, 95}, 100, 10)
	require.Equal(t, []types.TimeRange{
		{Start: 0, End: 40},
		{Start: 40, End: 95},
	}, plan)
}

func TestFromSceneCuts_IgnoresOutOfBoundsCuts(t *testing.T) {
	plan := FromSceneCuts([]float64{-5, 0, 50, 100, 140}, 100, 10)
	require.Equal(t, []types.TimeRange{
		{Start: 0, End: 50},
		{Start: 50, End: 100},
	}, plan)
}

func TestValidate(t *testing.T) {
	good := FixedInterval(95, 30, 10)
	assert.NoError(t, Validate(good, 10))

	tests := []struct {
		name string
		plan []types.TimeRange
	}{
		{"negative start", []types.TimeRange{{Start: -1, End: 10}}},
		{"zero length", []types.TimeRange{{Start: 5, End: 5}}},
		{"overlap", []types.TimeRange{{Start: 0, End: 30}, {Start: 20, End: 50}}},
		{"below minimum", []types.TimeRange{{Start: 0, End: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate(tt.plan, 10))
		})
	}
}

func TestFixedInterval_NoFloatDrift(t *testing.T) {
	plan := FixedInterval(100.7, 0.3, 0)
	for i := 1; i < len(plan); i++ {
		require.True(t, math.Abs(plan[i].Start-plan[i-1].End) < 1e-9)
	}
	assert.Equal(t, 100.7, plan[len(plan)-1].End)
}
