package timeline

import (
	"testing"

	"github.com/rickgao/polychart/internal/model"
)

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); got != nil {
		t.Errorf("Merge(nil) = %v, want nil", got)
	}
	if got := Merge([]model.Series{}); got != nil {
		t.Errorf("Merge(empty) = %v, want nil", got)
	}
	if got := Merge([]model.Series{{ID: "a"}, {ID: "b"}}); got != nil {
		t.Errorf("Merge(series with no samples) = %v, want nil", got)
	}
}

func TestMergeSingleSeries(t *testing.T) {
	series := []model.Series{{
		ID: "a",
		Samples: []model.Sample{
			{T: 0, P: 0.2},
			{T: 60, P: 0.3},
			{T: 120, P: 0.25},
		},
	}}

	rows := Merge(series)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for i, want := range series[0].Samples {
		if rows[i].T != want.T {
			t.Errorf("rows[%d].T = %d, want %d", i, rows[i].T, want.T)
		}
		if rows[i].Values["a"] != want.P {
			t.Errorf("rows[%d].Values[a] = %v, want %v", i, rows[i].Values["a"], want.P)
		}
		if len(rows[i].Values) != 1 {
			t.Errorf("rows[%d] has %d values, want 1", i, len(rows[i].Values))
		}
	}
}

// TestMergeTwoInstruments covers the interleaved two-instrument case:
// A = [(0,0.4),(100,0.5)], B = [(50,0.6)].
func TestMergeTwoInstruments(t *testing.T) {
	rows := Merge([]model.Series{
		{ID: "A", Samples: []model.Sample{{T: 0, P: 0.4}, {T: 100, P: 0.5}}},
		{ID: "B", Samples: []model.Sample{{T: 50, P: 0.6}}},
	})

	want := []model.MergedRow{
		{T: 0, Values: map[string]float64{"A": 0.4}},
		{T: 50, Values: map[string]float64{"A": 0.4, "B": 0.6}},
		{T: 100, Values: map[string]float64{"A": 0.5, "B": 0.6}},
	}

	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i].T != want[i].T {
			t.Errorf("rows[%d].T = %d, want %d", i, rows[i].T, want[i].T)
		}
		if len(rows[i].Values) != len(want[i].Values) {
			t.Errorf("rows[%d] has %d values, want %d", i, len(rows[i].Values), len(want[i].Values))
		}
		for id, p := range want[i].Values {
			got, ok := rows[i].Values[id]
			if !ok {
				t.Errorf("rows[%d] missing %q", i, id)
				continue
			}
			if got != p {
				t.Errorf("rows[%d].Values[%q] = %v, want %v", i, id, got, p)
			}
		}
	}
}

func TestMergeAbsenceBeforeFirstSample(t *testing.T) {
	rows := Merge([]model.Series{
		{ID: "early", Samples: []model.Sample{{T: 0, P: 0.1}, {T: 10, P: 0.2}}},
		{ID: "late", Samples: []model.Sample{{T: 20, P: 0.9}}},
	})

	for _, r := range rows {
		if r.T < 20 {
			if _, ok := r.Values["late"]; ok {
				t.Errorf("row t=%d carries 'late' before its first sample", r.T)
			}
		} else {
			if _, ok := r.Values["late"]; !ok {
				t.Errorf("row t=%d missing 'late' after its first sample", r.T)
			}
		}
	}
}

func TestMergeForwardFill(t *testing.T) {
	// Sparse instrument b must carry its last value through every later row.
	rows := Merge([]model.Series{
		{ID: "a", Samples: []model.Sample{
			{T: 0, P: 0.10}, {T: 60, P: 0.11}, {T: 120, P: 0.12}, {T: 180, P: 0.13},
		}},
		{ID: "b", Samples: []model.Sample{{T: 60, P: 0.50}}},
	})

	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	for _, r := range rows[1:] {
		if r.Values["b"] != 0.50 {
			t.Errorf("row t=%d Values[b] = %v, want forward-filled 0.50", r.T, r.Values["b"])
		}
	}
	if _, ok := rows[0].Values["b"]; ok {
		t.Error("row t=0 should not carry 'b'")
	}
}

func TestMergeSimultaneousTrades(t *testing.T) {
	// Duplicate timestamps across instruments land in the same row.
	rows := Merge([]model.Series{
		{ID: "a", Samples: []model.Sample{{T: 100, P: 0.3}}},
		{ID: "b", Samples: []model.Sample{{T: 100, P: 0.7}}},
	})

	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Values["a"] != 0.3 || rows[0].Values["b"] != 0.7 {
		t.Errorf("row values = %v, want a=0.3 b=0.7", rows[0].Values)
	}
}

func TestMergeOrderingAndDistinctCount(t *testing.T) {
	rows := Merge([]model.Series{
		{ID: "a", Samples: []model.Sample{{T: 0, P: 0.1}, {T: 100, P: 0.2}, {T: 200, P: 0.3}}},
		{ID: "b", Samples: []model.Sample{{T: 50, P: 0.4}, {T: 100, P: 0.5}}},
	})

	// Distinct timestamps: 0, 50, 100, 200.
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].T <= rows[i-1].T {
			t.Errorf("rows not strictly increasing: rows[%d].T=%d, rows[%d].T=%d",
				i-1, rows[i-1].T, i, rows[i].T)
		}
	}
}

func TestMergeNonOverlappingInstruments(t *testing.T) {
	rows := Merge([]model.Series{
		{ID: "a", Samples: []model.Sample{{T: 0, P: 0.1}, {T: 10, P: 0.2}}},
		{ID: "b", Samples: []model.Sample{{T: 100, P: 0.8}, {T: 110, P: 0.9}}},
	})

	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	// Later rows carry more keys than earlier ones.
	if len(rows[0].Values) != 1 || len(rows[3].Values) != 2 {
		t.Errorf("key counts = %d,%d, want 1,2", len(rows[0].Values), len(rows[3].Values))
	}
	if rows[3].Values["a"] != 0.2 {
		t.Errorf("rows[3].Values[a] = %v, want forward-filled 0.2", rows[3].Values["a"])
	}
}

// TestMergeRowIsolation verifies each row owns a copy of the running
// forward-fill map, not a reference mutated by later scanning.
func TestMergeRowIsolation(t *testing.T) {
	rows := Merge([]model.Series{
		{ID: "a", Samples: []model.Sample{{T: 0, P: 0.1}, {T: 60, P: 0.9}}},
	})

	if rows[0].Values["a"] != 0.1 {
		t.Errorf("rows[0].Values[a] = %v, want 0.1 (row must not see later updates)", rows[0].Values["a"])
	}

	rows[0].Values["a"] = 0.555
	if rows[1].Values["a"] != 0.9 {
		t.Errorf("mutating row 0 leaked into row 1: %v", rows[1].Values["a"])
	}
}
