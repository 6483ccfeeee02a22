// Package catalog resolves the working set of perp assets from the
// exchange's live metadata, so the tool keeps up as listings change.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"hypefunding/internal/funding"
	"hypefunding/internal/hyperliquid"
	"hypefunding/internal/logger"
)

// ResolutionError aborts the whole run: without a catalog there is
// nothing meaningful to report.
type ResolutionError struct {
	Dex string
	Err error
}

func (e *ResolutionError) Error() string {
	dex := e.Dex
	if dex == "" {
		dex = "main"
	}
	return fmt.Sprintf("resolving catalog (dex=%s): %v", dex, e.Err)
}
func (e *ResolutionError) Unwrap() error { return e.Err }

type MetaSource interface {
	MetaAndAssetCtxs(ctx context.Context, dex string) ([]hyperliquid.AssetMeta, error)
}

type Resolver struct {
	source MetaSource
}

func NewResolver(source MetaSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the asset working set in stable order (main perps
// first, then TradFi) together with each asset's market snapshot.
// The TradFi dex is always included; the main perp dex only when
// includeMainPerp is set.
func (r *Resolver) Resolve(ctx context.Context, includeMainPerp bool) ([]funding.Asset, map[string]funding.Snapshot, error) {
	var assets []funding.Asset
	snapshots := make(map[string]funding.Snapshot)
	seen := make(map[string]struct{})

	add := func(metas []hyperliquid.AssetMeta, tradFi bool) {
		for _, m := range metas {
			if _, ok := seen[m.Name]; ok {
				continue
			}
			seen[m.Name] = struct{}{}
			assets = append(assets, funding.Asset{
				ID:      m.Name,
				Display: displayName(m.Name),
				TradFi:  tradFi,
			})
			snapshots[m.Name] = m.Snapshot
		}
	}

	if includeMainPerp {
		metas, err := r.source.MetaAndAssetCtxs(ctx, "")
		if err != nil {
			return nil, nil, &ResolutionError{Dex: "", Err: err}
		}
		add(metas, false)
		logger.Infof("[catalog] 主 Perp Dex: %d 个资产", len(metas))
	} else {
		logger.Infof("[catalog] 主 Perp Dex: 已跳过 (使用 --main-perp 开启)")
	}

	tradFi, err := r.source.MetaAndAssetCtxs(ctx, hyperliquid.TradFiDex)
	if err != nil {
		return nil, nil, &ResolutionError{Dex: hyperliquid.TradFiDex, Err: err}
	}
	add(tradFi, true)
	logger.Infof("[catalog] HIP-3 TradFi: %d 个资产", len(tradFi))

	return assets, snapshots, nil
}

func displayName(coin string) string {
	return strings.TrimPrefix(coin, hyperliquid.TradFiDex+":")
}
