package timeline

import (
	"testing"

	"github.com/rickgao/polychart/internal/model"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		samples []model.Sample
		want    Summary
	}{
		{
			name: "empty",
			want: Summary{Points: 0},
		},
		{
			name:    "single point has no interval",
			samples: []model.Sample{{T: 100, P: 0.5}},
			want:    Summary{Points: 1},
		},
		{
			name:    "minute spacing",
			samples: []model.Sample{{T: 0}, {T: 60}, {T: 120}},
			want:    Summary{Points: 3, MinutesPerPoint: 1},
		},
		{
			name:    "five minute spacing after sampling",
			samples: []model.Sample{{T: 0}, {T: 300}, {T: 600}, {T: 900}},
			want:    Summary{Points: 4, MinutesPerPoint: 5},
		},
		{
			name:    "sub-minute rounds to zero",
			samples: []model.Sample{{T: 0}, {T: 10}, {T: 20}},
			want:    Summary{Points: 3, MinutesPerPoint: 0},
		},
		{
			name:    "uneven spacing uses the average",
			samples: []model.Sample{{T: 0}, {T: 60}, {T: 240}}, // avg 120s
			want:    Summary{Points: 3, MinutesPerPoint: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeSamples(tt.samples)
			if got != tt.want {
				t.Errorf("SummarizeSamples() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarizeRows(t *testing.T) {
	rows := []model.MergedRow{{T: 0}, {T: 600}}
	got := SummarizeRows(rows)
	if got.Points != 2 || got.MinutesPerPoint != 10 {
		t.Errorf("SummarizeRows() = %+v, want {2 10}", got)
	}
}

func TestSummaryLabel(t *testing.T) {
	tests := []struct {
		name string
		s    Summary
		want string
	}{
		{"no data", Summary{}, "no data"},
		{"full resolution", Summary{Points: 42}, "42 points, full resolution"},
		{"coarse", Summary{Points: 144, MinutesPerPoint: 5}, "144 points, ~5 min/point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
