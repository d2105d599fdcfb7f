package timeline

import (
	"maps"
	"sort"

	"github.com/rickgao/polychart/internal/model"
)

// observation is one flattened (timestamp, instrument, price) triple.
type observation struct {
	t     int64
	id    string
	p     float64
	order int // input series index, tie-break for equal timestamps
}

// Merge combines N independently sampled series into one row-oriented table
// indexed by the union of all observed timestamps. Each series' last known
// value is carried forward, so every row after an instrument's first
// observation has a value for it. Rows before an instrument's first sample
// omit its key entirely.
//
// Output rows are strictly increasing in T; output length equals the number
// of distinct timestamps across all inputs.
func Merge(series []model.Series) []model.MergedRow {
	total := 0
	for _, s := range series {
		total += len(s.Samples)
	}
	if total == 0 {
		return nil
	}

	obs := make([]observation, 0, total)
	for i, s := range series {
		for _, smp := range s.Samples {
			obs = append(obs, observation{t: smp.T, id: s.ID, p: smp.P, order: i})
		}
	}

	// sort.Slice is not stable; the explicit order key keeps equal-timestamp
	// writes deterministic across runs.
	sort.Slice(obs, func(a, b int) bool {
		if obs[a].t != obs[b].t {
			return obs[a].t < obs[b].t
		}
		return obs[a].order < obs[b].order
	})

	// last accumulates the forward-fill state across the scan. Each new row
	// is seeded with a copy, never a shared reference.
	last := make(map[string]float64, len(series))
	rows := make([]model.MergedRow, 0, total)

	for _, o := range obs {
		if len(rows) == 0 || o.t != rows[len(rows)-1].T {
			rows = append(rows, model.MergedRow{T: o.t, Values: maps.Clone(last)})
		}
		cur := &rows[len(rows)-1]
		if cur.Values == nil {
			cur.Values = make(map[string]float64, len(series))
		}
		cur.Values[o.id] = o.p
		last[o.id] = o.p
	}

	return rows
}
