// Package app wires the fetch → aggregate → render pipeline for one
// invocation.
package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hypefunding/internal/catalog"
	"hypefunding/internal/config"
	"hypefunding/internal/funding"
	"hypefunding/internal/hyperliquid"
	"hypefunding/internal/logger"
	"hypefunding/internal/pkg/retry"
	"hypefunding/internal/report"
)

var decimalHundred = decimal.NewFromInt(100)

type Options struct {
	IncludeMainPerp bool
	// OutputPath overrides report.output_path when non-empty.
	OutputPath string
}

type App struct {
	cfg        *config.Config
	resolver   *catalog.Resolver
	aggregator *funding.Aggregator
}

func New(cfg *config.Config) *App {
	client := hyperliquid.New(hyperliquid.Config{
		BaseURL:       cfg.Exchange.BaseURL,
		Timeout:       time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
		RatePerSecond: cfg.Exchange.RatePerSecond,
		Burst:         cfg.Exchange.Burst,
		Retry: retry.Policy{
			MaxAttempts: cfg.Exchange.RetryMaxAttempts,
			BaseDelay:   time.Duration(cfg.Exchange.RetryBaseDelayMS) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.Exchange.RetryMaxDelayMS) * time.Millisecond,
			Jitter:      0.2,
		},
		BreakerThreshold: cfg.Exchange.BreakerThreshold,
		BreakerCooldown:  time.Duration(cfg.Exchange.BreakerCooldownSeconds) * time.Second,
	})
	return &App{
		cfg:        cfg,
		resolver:   catalog.NewResolver(client),
		aggregator: funding.NewAggregator(client, cfg.Fetch.LookbackDays, cfg.Fetch.Concurrency),
	}
}

// Run executes one full pipeline pass. Catalog resolution and report
// writing failures abort the run; per-asset fetch failures degrade to
// "no data" rows and still exit clean.
func (a *App) Run(ctx context.Context, opts Options) error {
	runID := strings.Split(uuid.NewString(), "-")[0]
	logger.Infof("[app] run=%s 获取资产列表...", runID)

	assets, snapshots, err := a.resolver.Resolve(ctx, opts.IncludeMainPerp)
	if err != nil {
		return err
	}

	mainCount, tradFiCount := 0, 0
	for _, asset := range assets {
		if asset.TradFi {
			tradFiCount++
		} else {
			mainCount++
		}
	}
	logger.Infof("[app] 总计 %d 个交易对，数据范围最近 %d 天", len(assets), a.cfg.Fetch.LookbackDays)

	records := a.aggregator.Aggregate(ctx, assets, snapshots)

	withData := 0
	for _, rec := range records {
		if rec.HasData {
			withData++
		}
	}
	logger.Infof("[app] 成功获取 %d/%d 个交易对", withData, len(records))

	outPath := a.cfg.Report.OutputPath
	if opts.OutputPath != "" {
		outPath = opts.OutputPath
	}
	data := report.Data{
		GeneratedAt:   time.Now(),
		RunID:         runID,
		MainCount:     mainCount,
		TradFiCount:   tradFiCount,
		Records:       records,
		HistoryPoints: a.cfg.Report.HistoryPoints,
	}
	if err := report.WriteFile(outPath, data); err != nil {
		return err
	}
	logger.Infof("[app] 报告已保存: %s", outPath)

	if path := a.cfg.Report.OverviewPath; path != "" {
		if err := report.WriteOverviewHTML(path, records, a.cfg.Report.TopN); err != nil {
			logger.Warnf("[app] 图表总览生成失败: %v", err)
		} else {
			logger.Infof("[app] 图表总览已保存: %s", path)
		}
	}
	if path := a.cfg.Report.SnapshotPath; path != "" {
		if err := report.SnapshotPNG(ctx, path, records, a.cfg.Report.TopN); err != nil {
			logger.Warnf("[app] PNG 快照生成失败: %v", err)
		} else {
			logger.Infof("[app] PNG 快照已保存: %s", path)
		}
	}

	a.logTopMovers(records)
	return nil
}

// logTopMovers reproduces the console epilogue: the busiest assets by
// |7D cumulative funding|.
func (a *App) logTopMovers(records []funding.Record) {
	movers := make([]funding.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasData {
			movers = append(movers, rec)
		}
	}
	if len(movers) == 0 {
		return
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].Stats.Sum7d.Abs().GreaterThan(movers[j].Stats.Sum7d.Abs())
	})
	topN := a.cfg.Report.TopN
	if len(movers) > topN {
		movers = movers[:topN]
	}
	logger.Infof("[app] 费率 TOP %d (7天累计绝对值):", len(movers))
	for _, rec := range movers {
		pct := rec.Stats.Sum7d.Mul(decimalHundred).Round(2)
		logger.Infof("[app]   %-12s 7天: %s%%", rec.Asset.Display, pct.String())
	}
}
