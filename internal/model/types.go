package model

import "math"

// -----------------------------------------------------------------------------
// Catalog Types
// -----------------------------------------------------------------------------

// Instrument is one tracked outcome whose price is a probability in [0,1].
type Instrument struct {
	ID        string // Primary key (Polymarket market ID)
	Question  string // Display name (e.g., "Will X win?")
	Slug      string // Event slug this instrument belongs to
	TokenID   string // CLOB token ID of the YES outcome
	Volume    float64
	Active    bool
	UpdatedAt int64 // Last catalog refresh (seconds since epoch)
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Sample is one price observation for one instrument.
// T strictly increases within a single instrument's series.
type Sample struct {
	T int64   `json:"t"` // Seconds since epoch
	P float64 `json:"p"` // Probability in [0,1]
}

// Series is the ordered price history of one instrument.
// Treated as immutable once handed to the timeline transforms.
type Series struct {
	ID      string
	Name    string
	Samples []Sample
}

// MergedRow is one row of the merged multi-instrument table: every distinct
// timestamp across the inputs gets a row, and each instrument that has started
// trading by that time carries its most recent value. Instruments that have
// not yet traded at T are absent from Values, not zero, so renderers can tell
// "not yet trading" from "at zero probability".
type MergedRow struct {
	T      int64              `json:"t"`
	Values map[string]float64 `json:"values"`
}

// -----------------------------------------------------------------------------
// Viewport
// -----------------------------------------------------------------------------

// Sentinel bounds meaning "no clipping at this edge".
const (
	FullRangeStart int64 = math.MinInt64
	FullRangeEnd   int64 = math.MaxInt64
)

// Viewport is the currently zoomed time window. Either edge may be a
// full-range sentinel.
type Viewport struct {
	Left  int64
	Right int64
}

// FullRange returns a viewport that clips nothing.
func FullRange() Viewport {
	return Viewport{Left: FullRangeStart, Right: FullRangeEnd}
}

// Normalize returns the viewport with inverted bounds swapped.
// A viewport is never rejected, only repaired.
func (v Viewport) Normalize() Viewport {
	if v.Left > v.Right {
		v.Left, v.Right = v.Right, v.Left
	}
	return v
}
