package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/polychart/internal/cache"
	"github.com/rickgao/polychart/internal/model"
	"github.com/rickgao/polychart/internal/timeline"
)

// ChartResponse is the payload of GET /api/v1/chart. Exactly one of Samples
// (single market) or Rows (merged multi-market) is populated.
type ChartResponse struct {
	Markets []string          `json:"markets"`
	Samples []model.Sample    `json:"samples,omitempty"`
	Rows    []model.MergedRow `json:"rows,omitempty"`
	Summary timeline.Summary  `json:"summary"`
	Label   string            `json:"label"`
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	instruments, err := s.data.ListInstruments(ctx)
	if err != nil {
		s.logger.Error("failed to list instruments", "err", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(instruments),
		"instruments": instruments,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	markets := splitMarkets(q.Get("markets"))
	if len(markets) == 0 {
		http.Error(w, "markets parameter is required", http.StatusBadRequest)
		return
	}

	vp, err := parseViewport(q.Get("left"), q.Get("right"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	minutesPerPoint := s.cfg.DefaultMinutesPerPoint
	if raw := q.Get("minutes_per_point"); raw != "" {
		minutesPerPoint, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid minutes_per_point", http.StatusBadRequest)
			return
		}
	}

	key := cache.Key{
		Markets:         strings.Join(markets, ","),
		Left:            vp.Left,
		Right:           vp.Right,
		MinutesPerPoint: minutesPerPoint,
	}
	if payload, ok := s.charts.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		w.Write(payload)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resp, err := s.buildChart(ctx, markets, vp, minutesPerPoint)
	if err != nil {
		s.logger.Error("failed to build chart", "markets", key.Markets, "err", err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	s.charts.Put(key, payload)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	w.Write(payload)
}

// buildChart assembles a sampled chart for the requested markets.
func (s *Server) buildChart(ctx context.Context, markets []string, vp model.Viewport, minutesPerPoint float64) (*ChartResponse, error) {
	resp := &ChartResponse{Markets: markets}

	if len(markets) == 1 {
		samples, err := s.data.Samples(ctx, markets[0])
		if err != nil {
			return nil, err
		}

		firstT, lastT := dataSpan(samples, sampleTS)
		target := timeline.TargetPoints(visibleSpan(vp, firstT, lastT), minutesPerPoint)
		resp.Samples = timeline.DownsampleSamples(samples, vp, target)
		resp.Summary = timeline.SummarizeSamples(resp.Samples)
		resp.Label = resp.Summary.Label()
		return resp, nil
	}

	series := make([]model.Series, 0, len(markets))
	for _, id := range markets {
		samples, err := s.data.Samples(ctx, id)
		if err != nil {
			return nil, err
		}
		series = append(series, model.Series{ID: id, Samples: samples})
	}

	rows := timeline.Merge(series)
	firstT, lastT := dataSpan(rows, rowTS)
	target := timeline.TargetPoints(visibleSpan(vp, firstT, lastT), minutesPerPoint)
	resp.Rows = timeline.DownsampleRows(rows, vp, target)
	resp.Summary = timeline.SummarizeRows(resp.Rows)
	resp.Label = resp.Summary.Label()
	return resp, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.data.Ping(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["database"] = map[string]string{
			"status": "disconnected",
			"error":  err.Error(),
		}
	} else {
		health.Components["database"] = "connected"

		instruments, err := s.data.ListInstruments(ctx)
		if err == nil {
			health.Components["catalog"] = map[string]any{
				"instruments": len(instruments),
			}
			if len(instruments) == 0 {
				health.Status = "degraded"
			}
		}
	}

	health.Components["cache"] = s.charts.Stats()
	health.Components["live_clients"] = s.hub.ClientCount()

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// splitMarkets parses and order-normalizes the markets query parameter so
// equivalent requests share one cache entry.
func splitMarkets(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// parseViewport maps absent bounds to the full-range sentinels. Inverted
// bounds are repaired downstream, never rejected here.
func parseViewport(left, right string) (model.Viewport, error) {
	vp := model.FullRange()

	if left != "" {
		v, err := strconv.ParseInt(left, 10, 64)
		if err != nil {
			return vp, errInvalidBound("left")
		}
		vp.Left = v
	}
	if right != "" {
		v, err := strconv.ParseInt(right, 10, 64)
		if err != nil {
			return vp, errInvalidBound("right")
		}
		vp.Right = v
	}

	return vp, nil
}

type errInvalidBound string

func (e errInvalidBound) Error() string { return "invalid " + string(e) + " bound" }

func sampleTS(s model.Sample) int64 { return s.T }
func rowTS(r model.MergedRow) int64 { return r.T }

// dataSpan returns the first and last timestamps of ordered data.
func dataSpan[T any](data []T, ts func(T) int64) (int64, int64) {
	if len(data) == 0 {
		return 0, 0
	}
	return ts(data[0]), ts(data[len(data)-1])
}

// visibleSpan computes the wall-clock width the viewport will display,
// substituting the data extent for full-range sentinel edges.
func visibleSpan(vp model.Viewport, firstT, lastT int64) time.Duration {
	vp = vp.Normalize()

	left := vp.Left
	if left == model.FullRangeStart || left < firstT {
		left = firstT
	}
	right := vp.Right
	if right == model.FullRangeEnd || right > lastT {
		right = lastT
	}
	if right <= left {
		return 0
	}
	return time.Duration(right-left) * time.Second
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
