package highlights

import "github.com/forPelevin/vidsplit/internal/types"

// FaceScoreFunc reports face presence in a frame as a [0,1] score. It is
// injectable so tests can drive exact values and alternative detectors can
// be swapped in without touching the scorer.
type FaceScoreFunc func(types.RGBFrame) float64

// SkinToneFaceScore is the built-in face-presence heuristic. It finds
// connected skin-tone regions in the downsampled frame and scores them the
// way a detector count/size heuristic would: a single region scores by its
// area relative to the frame, multiple regions get a flat per-region credit
// with diminishing returns.
func SkinToneFaceScore(f types.RGBFrame) float64 {
	w, h := f.Width, f.Height
	if w == 0 || h == 0 || len(f.Pix) < w*h*3 {
		return 0
	}

	mask := make([]bool, w*h)
	for i := 0; i < w*h; i++ {
		mask[i] = isSkinTone(f.Pix[i*3], f.Pix[i*3+1], f.Pix[i*3+2])
	}

	regions := skinRegions(mask, w, h)
	switch len(regions) {
	case 0:
		return 0
	case 1:
		sizeRatio := float64(regions[0]) / float64(w*h)
		return clamp01(sizeRatio * 10)
	default:
		return clamp01(float64(len(regions)) * 0.3)
	}
}

// isSkinTone is a classic RGB skin classifier: dominant red channel with
// bounded spread, bright enough to not be shadow.
func isSkinTone(r, g, b byte) bool {
	rf, gf, bf := int(r), int(g), int(b)
	return rf > 95 && gf > 40 && bf > 20 &&
		rf > gf && rf > bf &&
		rf-int(min3(r, g, b)) > 15 &&
		abs(rf-gf) > 15
}

// skinRegions returns the pixel counts of connected skin areas, ignoring
// specks too small to be a face at the sampled resolution.
func skinRegions(mask []bool, w, h int) []int {
	minRegion := w * h / 100 // under 1% of the frame is noise
	if minRegion < 4 {
		minRegion = 4
	}

	visited := make([]bool, len(mask))
	var regions []int
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		size := 0
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++

			x, y := p%w, p/w
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				np := ny*w + nx
				if mask[np] && !visited[np] {
					visited[np] = true
					stack = append(stack, np)
				}
			}
		}
		if size >= minRegion {
			regions = append(regions, size)
		}
	}
	return regions
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
