package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypefunding/internal/funding"
	"hypefunding/internal/hyperliquid"
)

type fakeMetaSource struct {
	main   []hyperliquid.AssetMeta
	tradFi []hyperliquid.AssetMeta
	errs   map[string]error
}

func (f *fakeMetaSource) MetaAndAssetCtxs(_ context.Context, dex string) ([]hyperliquid.AssetMeta, error) {
	if err, ok := f.errs[dex]; ok {
		return nil, err
	}
	if dex == hyperliquid.TradFiDex {
		return f.tradFi, nil
	}
	return f.main, nil
}

func meta(name string, volume float64) hyperliquid.AssetMeta {
	return hyperliquid.AssetMeta{
		Name:     name,
		Snapshot: funding.Snapshot{Volume24h: volume},
	}
}

func TestResolveTradFiOnly(t *testing.T) {
	src := &fakeMetaSource{
		main:   []hyperliquid.AssetMeta{meta("BTC", 1e9), meta("ETH", 5e8)},
		tradFi: []hyperliquid.AssetMeta{meta("xyz:TSLA", 1234.5), meta("xyz:GOLD", 99)},
	}

	assets, snapshots, err := NewResolver(src).Resolve(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, assets, 2)
	assert.Equal(t, "xyz:TSLA", assets[0].ID)
	assert.Equal(t, "TSLA", assets[0].Display)
	assert.True(t, assets[0].TradFi)
	assert.Equal(t, 1234.5, snapshots["xyz:TSLA"].Volume24h)
}

func TestResolveWithMainPerpKeepsOrder(t *testing.T) {
	src := &fakeMetaSource{
		main:   []hyperliquid.AssetMeta{meta("BTC", 1e9), meta("ETH", 5e8)},
		tradFi: []hyperliquid.AssetMeta{meta("xyz:TSLA", 1234.5)},
	}

	assets, _, err := NewResolver(src).Resolve(context.Background(), true)
	require.NoError(t, err)

	// Main perps come first, TradFi appended after.
	require.Len(t, assets, 3)
	assert.Equal(t, []string{"BTC", "ETH", "xyz:TSLA"}, []string{assets[0].ID, assets[1].ID, assets[2].ID})
	assert.False(t, assets[0].TradFi)
	assert.Equal(t, "BTC", assets[0].Display)
}

func TestResolveTradFiOnlyIsSubsetOfFull(t *testing.T) {
	src := &fakeMetaSource{
		main:   []hyperliquid.AssetMeta{meta("BTC", 1e9)},
		tradFi: []hyperliquid.AssetMeta{meta("xyz:TSLA", 1)},
	}
	r := NewResolver(src)

	subset, _, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)
	full, _, err := r.Resolve(context.Background(), true)
	require.NoError(t, err)

	fullIDs := make(map[string]struct{}, len(full))
	for _, a := range full {
		fullIDs[a.ID] = struct{}{}
	}
	for _, a := range subset {
		assert.Contains(t, fullIDs, a.ID)
	}
}

func TestResolveDeduplicates(t *testing.T) {
	src := &fakeMetaSource{
		main:   []hyperliquid.AssetMeta{meta("BTC", 1e9), meta("BTC", 2e9)},
		tradFi: []hyperliquid.AssetMeta{meta("xyz:TSLA", 1)},
	}

	assets, snapshots, err := NewResolver(src).Resolve(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, assets, 2)
	// The first occurrence wins.
	assert.Equal(t, 1e9, snapshots["BTC"].Volume24h)
}

func TestResolveMainDexErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeMetaSource{errs: map[string]error{"": boom}}

	_, _, err := NewResolver(src).Resolve(context.Background(), true)
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "", resErr.Dex)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "dex=main")
}

func TestResolveTradFiErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeMetaSource{
		main: []hyperliquid.AssetMeta{meta("BTC", 1e9)},
		errs: map[string]error{hyperliquid.TradFiDex: boom},
	}

	_, _, err := NewResolver(src).Resolve(context.Background(), true)
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, hyperliquid.TradFiDex, resErr.Dex)
}

func TestDisplayNameStripsDexPrefix(t *testing.T) {
	assert.Equal(t, "TSLA", displayName("xyz:TSLA"))
	assert.Equal(t, "BTC", displayName("BTC"))
	assert.Equal(t, "ABC:DEF", displayName("ABC:DEF"))
}
