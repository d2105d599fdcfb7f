package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/rickgao/polychart/internal/model"
)

// Downsample returns a reduced-resolution subsequence of data restricted to
// the viewport. Elements are taken as-is, never interpolated. ts extracts an
// element's timestamp; data must already be ordered ascending by it.
//
// When the visible slice fits the budget (or targetPoints <= 0, meaning
// unbounded) the slice is returned at full fidelity. Otherwise every
// stride-th element is kept, stride = ceil(n/targetPoints), and the slice's
// final element is forced in so the rendered line reaches the right edge of
// the viewport. Output length is therefore at most targetPoints+1.
func Downsample[T any](data []T, ts func(T) int64, vp model.Viewport, targetPoints int) []T {
	if len(data) == 0 {
		return nil
	}
	vp = vp.Normalize()

	start := 0
	if vp.Left != model.FullRangeStart {
		// First element at or after the left edge. A left bound past the end
		// of the data must not suppress the whole series, so not-found falls
		// back to the unclipped edge.
		if i := sort.Search(len(data), func(i int) bool { return ts(data[i]) >= vp.Left }); i < len(data) {
			start = i
		}
	}

	end := len(data)
	if vp.Right != model.FullRangeEnd {
		// First element strictly after the right edge; not-found already
		// yields len(data), the unclipped edge.
		end = sort.Search(len(data), func(i int) bool { return ts(data[i]) > vp.Right })
	}
	if end < start {
		end = start
	}

	slice := data[start:end]
	n := len(slice)
	if n == 0 {
		return nil
	}

	if targetPoints <= 0 || n <= targetPoints {
		out := make([]T, n)
		copy(out, slice)
		return out
	}

	stride := (n + targetPoints - 1) / targetPoints
	out := make([]T, 0, targetPoints+1)
	for i := 0; i < n; i += stride {
		out = append(out, slice[i])
	}
	if ts(out[len(out)-1]) != ts(slice[n-1]) {
		out = append(out, slice[n-1])
	}

	return out
}

// DownsampleRows restricts and reduces a merged table.
func DownsampleRows(rows []model.MergedRow, vp model.Viewport, targetPoints int) []model.MergedRow {
	return Downsample(rows, func(r model.MergedRow) int64 { return r.T }, vp, targetPoints)
}

// DownsampleSamples restricts and reduces a single instrument's history.
func DownsampleSamples(samples []model.Sample, vp model.Viewport, targetPoints int) []model.Sample {
	return Downsample(samples, func(s model.Sample) int64 { return s.T }, vp, targetPoints)
}

// TargetPoints converts a user-facing detail level (minutes of wall-clock
// time represented per rendered point) into a point budget for Downsample.
// A level <= 1 means full fidelity regardless of zoom; the returned 0 is
// Downsample's unbounded budget. Tying the budget to wall-clock density
// makes zooming into a narrow window automatically raise resolution.
func TargetPoints(visible time.Duration, minutesPerPoint float64) int {
	if minutesPerPoint <= 1 {
		return 0
	}
	return int(math.Ceil(visible.Minutes() / minutesPerPoint))
}
