package funding

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"hypefunding/internal/logger"
)

// HistorySource fetches an asset's funding observations inside the
// [start, end] range, oldest first. A short result is valid: young
// listings simply have less history.
type HistorySource interface {
	FundingHistory(ctx context.Context, coin string, start, end time.Time) ([]Observation, error)
}

type Aggregator struct {
	source      HistorySource
	lookback    time.Duration
	concurrency int
}

func NewAggregator(source HistorySource, lookbackDays, concurrency int) *Aggregator {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Aggregator{
		source:      source,
		lookback:    time.Duration(lookbackDays) * 24 * time.Hour,
		concurrency: concurrency,
	}
}

// Aggregate fetches history for every asset and derives its Stats.
// Output order equals input order. A per-asset fetch failure degrades
// that row to HasData=false instead of aborting the run, so one bad
// asset cannot take down the other ~200 rows.
func (a *Aggregator) Aggregate(ctx context.Context, assets []Asset, snapshots map[string]Snapshot) []Record {
	end := time.Now()
	start := end.Add(-a.lookback)

	records := make([]Record, len(assets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)

	for i, asset := range assets {
		i, asset := i, asset
		eg.Go(func() error {
			rec := Record{Asset: asset, Snapshot: snapshots[asset.ID]}
			history, err := a.source.FundingHistory(egCtx, asset.ID, start, end)
			if err != nil {
				logger.Warnf("[funding] %s 获取费率历史失败: %v", asset.Display, err)
				rec.FetchErr = err.Error()
				records[i] = rec
				return nil
			}
			sort.Slice(history, func(x, y int) bool { return history[x].Time.Before(history[y].Time) })
			rec.History = history
			if stats, ok := Compute(history); ok {
				rec.Stats = stats
				rec.HasData = true
			}
			records[i] = rec
			return nil
		})
	}
	// Workers never return errors; waiting only fences the writes.
	_ = eg.Wait()

	return records
}

// Compute derives Stats from a funding history. It reports ok=false for
// an empty history so callers can distinguish "no data" from a genuine
// zero rate.
func Compute(history []Observation) (Stats, bool) {
	if len(history) == 0 {
		return Stats{}, false
	}

	obs := make([]Observation, len(history))
	copy(obs, history)
	// Source order is not guaranteed.
	sort.Slice(obs, func(i, j int) bool { return obs[i].Time.Before(obs[j].Time) })

	latest := obs[len(obs)-1]

	stats := Stats{
		Rate8h: latest.Rate,
		Sum1d:  sumWindow(obs, latest.Time, 24*time.Hour),
		Sum3d:  sumWindow(obs, latest.Time, 72*time.Hour),
		Sum7d:  sumWindow(obs, latest.Time, 7*24*time.Hour),
		Sum30d: sumWindow(obs, latest.Time, 30*24*time.Hour),
		Count:  len(obs),
	}
	stats.Annualized = latest.Rate.Mul(PeriodsPerYear)

	total := obs[0].Rate
	stats.Max = obs[0].Rate
	stats.Min = obs[0].Rate
	for _, o := range obs[1:] {
		total = total.Add(o.Rate)
		if o.Rate.GreaterThan(stats.Max) {
			stats.Max = o.Rate
		}
		if o.Rate.LessThan(stats.Min) {
			stats.Min = o.Rate
		}
	}
	stats.Avg = total.Div(decimal.NewFromInt(int64(len(obs))))

	return stats, true
}

// sumWindow sums the rates of observations inside the trailing window
// ending at latest (cutoff inclusive). History that does not reach back
// far enough contributes whatever is actually there; there is no
// back-fill or interpolation.
func sumWindow(sorted []Observation, latest time.Time, window time.Duration) decimal.Decimal {
	cutoff := latest.Add(-window)
	sum := decimal.Zero
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Time.Before(cutoff) {
			break
		}
		sum = sum.Add(sorted[i].Rate)
	}
	return sum
}
