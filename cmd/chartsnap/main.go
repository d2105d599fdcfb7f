package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/rickgao/polychart/internal/archive"
	"github.com/rickgao/polychart/internal/model"
	"github.com/rickgao/polychart/internal/polymarket"
	"github.com/rickgao/polychart/internal/timeline"
	"github.com/rickgao/polychart/internal/version"
)

// chartsnap renders a one-off PNG chart for an event, either live from the
// upstream APIs or offline from a chartd archive.
func main() {
	var (
		slug            = flag.String("slug", "", "event slug to chart")
		left            = flag.Int64("left", 0, "viewport left bound (unix seconds, 0 = from first sample)")
		right           = flag.Int64("right", 0, "viewport right bound (unix seconds, 0 = to last sample)")
		minutesPerPoint = flag.Float64("minutes-per-point", 5, "detail level (<= 1 keeps full resolution)")
		top             = flag.Int("top", 8, "chart at most this many instruments by volume")
		out             = flag.String("out", "chart.png", "output PNG path")
		offline         = flag.Bool("offline", false, "read from the archive instead of the upstream APIs")
		archivePath     = flag.String("archive", "data/archive", "archive path for -offline")
		gammaURL        = flag.String("gamma-url", "https://gamma-api.polymarket.com", "Gamma API base URL")
		clobURL         = flag.String("clob-url", "https://clob.polymarket.com", "CLOB API base URL")
		lookback        = flag.Duration("lookback", 14*24*time.Hour, "history window for live fetches")
		fidelity        = flag.Int("fidelity", 1, "upstream resolution in minutes")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *slug == "" && !*offline {
		logger.Error("slug is required for live fetches")
		os.Exit(1)
	}

	logger.Info("chartsnap", "version", version.Version, "slug", *slug, "offline", *offline)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		series []model.Series
		err    error
	)
	if *offline {
		series, err = loadFromArchive(*archivePath, *slug)
	} else {
		series, err = fetchLive(ctx, logger, *gammaURL, *clobURL, *slug, *lookback, *fidelity)
	}
	if err != nil {
		logger.Error("failed to load series", "error", err)
		os.Exit(1)
	}
	if len(series) == 0 {
		logger.Error("no instruments with history", "slug", *slug)
		os.Exit(1)
	}

	series = topByObservations(series, *top)

	vp := model.FullRange()
	if *left != 0 {
		vp.Left = *left
	}
	if *right != 0 {
		vp.Right = *right
	}

	rows := timeline.Merge(series)
	if len(rows) == 0 {
		logger.Error("merged timeline is empty")
		os.Exit(1)
	}

	target := timeline.TargetPoints(visibleSpan(vp, rows[0].T, rows[len(rows)-1].T), *minutesPerPoint)
	sampled := timeline.DownsampleRows(rows, vp, target)
	summary := timeline.SummarizeRows(sampled)

	logger.Info("timeline prepared",
		"instruments", len(series),
		"rows", len(rows),
		"sampled", summary.Label(),
	)

	if err := renderPNG(*out, series, sampled); err != nil {
		logger.Error("failed to render chart", "error", err)
		os.Exit(1)
	}

	logger.Info("chart written", "path", *out)
}

// fetchLive pulls the event catalog and per-instrument history directly.
func fetchLive(ctx context.Context, logger *slog.Logger, gammaURL, clobURL, slug string, lookback time.Duration, fidelity int) ([]model.Series, error) {
	client := polymarket.NewClient(gammaURL, clobURL,
		polymarket.WithLogger(logger),
		polymarket.WithRetries(3, time.Second),
	)

	event, err := client.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}

	startTs := time.Now().Add(-lookback).Unix()

	var series []model.Series
	for i := range event.Markets {
		inst := event.Markets[i].ToInstrument(event.Slug)
		if inst.TokenID == "" {
			continue
		}

		points, err := client.GetPriceHistory(ctx, inst.TokenID, startTs, fidelity)
		if err != nil {
			logger.Warn("skipping instrument", "market_id", inst.ID, "error", err)
			continue
		}

		samples := polymarket.ToSamples(points)
		if len(samples) == 0 {
			continue
		}
		series = append(series, model.Series{ID: inst.ID, Name: inst.Question, Samples: samples})
	}

	return series, nil
}

// loadFromArchive reads a chartd archive. An empty slug takes every
// archived instrument.
func loadFromArchive(path, slug string) ([]model.Series, error) {
	arc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer arc.Close()

	instruments, err := arc.Instruments()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var series []model.Series
	for _, inst := range instruments {
		if slug != "" && inst.Slug != slug {
			continue
		}
		samples, err := arc.Samples(inst.ID)
		if err != nil || len(samples) == 0 {
			continue
		}
		series = append(series, model.Series{ID: inst.ID, Name: inst.Question, Samples: samples})
	}

	return series, nil
}

// topByObservations keeps the n series with the most samples so thin
// long-shot outcomes do not clutter the legend.
func topByObservations(series []model.Series, n int) []model.Series {
	if n <= 0 || len(series) <= n {
		return series
	}
	sort.SliceStable(series, func(i, j int) bool {
		return len(series[i].Samples) > len(series[j].Samples)
	})
	return series[:n]
}

// visibleSpan computes the wall-clock width the viewport will display,
// substituting the data extent for unbounded edges.
func visibleSpan(vp model.Viewport, firstT, lastT int64) time.Duration {
	vp = vp.Normalize()

	l := vp.Left
	if l == model.FullRangeStart || l < firstT {
		l = firstT
	}
	r := vp.Right
	if r == model.FullRangeEnd || r > lastT {
		r = lastT
	}
	if r <= l {
		return 0
	}
	return time.Duration(r-l) * time.Second
}

// renderPNG draws one time series per instrument from the merged rows.
func renderPNG(path string, series []model.Series, rows []model.MergedRow) error {
	chartSeries := make([]chart.Series, 0, len(series))

	for _, s := range series {
		var xs []time.Time
		var ys []float64
		for _, row := range rows {
			v, ok := row.Values[s.ID]
			if !ok {
				// Not yet trading at this timestamp.
				continue
			}
			xs = append(xs, time.Unix(row.T, 0))
			ys = append(ys, v*100)
		}
		if len(xs) < 2 {
			continue
		}
		chartSeries = append(chartSeries, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
		})
	}

	if len(chartSeries) == 0 {
		return fmt.Errorf("no series with at least two visible points")
	}

	ch := chart.Chart{
		Width:      1280,
		Height:     720,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "probability (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: chartSeries,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return ch.Render(chart.PNG, f)
}
