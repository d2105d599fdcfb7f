// Package timeline implements the chart preparation pipeline: merging
// independently sampled price histories onto one shared timeline with
// forward-fill, and downsampling the visible window to a bounded number
// of rendered points.
//
// Both transforms are pure functions over in-memory slices with no I/O and
// no shared state. Callers re-run them whenever the viewport, instrument
// selection, or detail level changes; caching across calls is the caller's
// concern.
package timeline
