package timeline

import (
	"fmt"
	"math"

	"github.com/rickgao/polychart/internal/model"
)

// Summary describes a sampled output for display next to the chart.
type Summary struct {
	Points          int `json:"points"`
	MinutesPerPoint int `json:"minutes_per_point"` // Rounded average spacing; 0 = sub-minute
}

// Summarize derives the "points shown / effective resolution" summary from a
// sampled output. It is computed from the output itself, not from the inputs
// that produced it.
func Summarize[T any](points []T, ts func(T) int64) Summary {
	n := len(points)
	if n < 2 {
		return Summary{Points: n}
	}

	avgIntervalSeconds := float64(ts(points[n-1])-ts(points[0])) / float64(n-1)
	return Summary{
		Points:          n,
		MinutesPerPoint: int(math.Round(avgIntervalSeconds / 60)),
	}
}

// SummarizeRows derives the summary for a sampled merged table.
func SummarizeRows(rows []model.MergedRow) Summary {
	return Summarize(rows, func(r model.MergedRow) int64 { return r.T })
}

// SummarizeSamples derives the summary for a sampled single series.
func SummarizeSamples(samples []model.Sample) Summary {
	return Summarize(samples, func(s model.Sample) int64 { return s.T })
}

// Label renders the summary as a human-readable string.
func (s Summary) Label() string {
	if s.Points == 0 {
		return "no data"
	}
	if s.MinutesPerPoint < 1 {
		return fmt.Sprintf("%d points, full resolution", s.Points)
	}
	return fmt.Sprintf("%d points, ~%d min/point", s.Points, s.MinutesPerPoint)
}
