package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypefunding/internal/pkg/retry"
)

func newTestClient(srvURL string) *Client {
	return New(Config{
		BaseURL:       srvURL,
		Timeout:       2 * time.Second,
		RatePerSecond: 1000,
		Burst:         100,
		Retry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
		BreakerThreshold: 100,
		BreakerCooldown:  time.Minute,
	})
}

type infoRequest struct {
	Type      string `json:"type"`
	Dex       string `json:"dex"`
	Coin      string `json:"coin"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

func decodeInfoRequest(t *testing.T, r *http.Request) infoRequest {
	t.Helper()
	var req infoRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func fundingEntry(coin string, ts int64, rate string) map[string]any {
	return map[string]any{"coin": coin, "fundingRate": rate, "premium": "0.0", "time": ts}
}

func TestMetaAndAssetCtxs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeInfoRequest(t, r)
		assert.Equal(t, "metaAndAssetCtxs", req.Type)
		assert.Equal(t, "xyz", req.Dex)
		resp := []any{
			map[string]any{"universe": []map[string]any{
				{"name": "xyz:TSLA", "szDecimals": 2},
				{"name": "xyz:GOLD", "szDecimals": 1},
			}},
			[]map[string]any{
				{"dayNtlVlm": "1234.5", "openInterest": "42.25", "markPx": "431.1", "funding": "0.0000125"},
				{"dayNtlVlm": "99", "openInterest": "7", "markPx": "2400", "funding": "-0.0001"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	metas, err := client.MetaAndAssetCtxs(context.Background(), TradFiDex)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	assert.Equal(t, "xyz:TSLA", metas[0].Name)
	assert.Equal(t, 1234.5, metas[0].Snapshot.Volume24h)
	assert.Equal(t, 42.25, metas[0].Snapshot.OpenInterest)
	assert.Equal(t, 431.1, metas[0].Snapshot.MarkPrice)
	assert.Equal(t, -0.0001, metas[1].Snapshot.Funding)
}

func TestMetaAndAssetCtxsOmitsDexForMainPerp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasDex := raw["dex"]
		assert.False(t, hasDex, "main perp dex query must not carry a dex field")
		json.NewEncoder(w).Encode([]any{
			map[string]any{"universe": []map[string]any{{"name": "BTC"}}},
			[]map[string]any{{"dayNtlVlm": "1", "openInterest": "1", "markPx": "1", "funding": "0"}},
		})
	}))
	defer srv.Close()

	metas, err := newTestClient(srv.URL).MetaAndAssetCtxs(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "BTC", metas[0].Name)
}

func TestMetaAndAssetCtxsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).MetaAndAssetCtxs(context.Background(), "")
	require.Error(t, err)
	var fatal *FatalError
	assert.ErrorAs(t, err, &fatal)
	assert.False(t, IsTransient(err))
}

func TestFundingHistoryPagination(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeInfoRequest(t, r)
		require.Equal(t, "fundingHistory", req.Type)
		require.Equal(t, "BTC", req.Coin)

		n := calls.Add(1)
		var entries []map[string]any
		switch n {
		case 1:
			assert.Equal(t, base, req.StartTime)
			for i := 0; i < fundingPageSize; i++ {
				entries = append(entries, fundingEntry("BTC", base+int64(i)*3600_000, "0.0001"))
			}
		case 2:
			// second page starts one past the first page's max time
			assert.Equal(t, base+int64(fundingPageSize-1)*3600_000+1, req.StartTime)
			for i := 0; i < 100; i++ {
				entries = append(entries, fundingEntry("BTC", base+int64(fundingPageSize+i)*3600_000, "0.0002"))
			}
		default:
			t.Errorf("unexpected extra page request %d", n)
		}
		json.NewEncoder(w).Encode(entries)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	start := time.UnixMilli(base)
	obs, err := client.FundingHistory(context.Background(), "BTC", start, start.Add(30*24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
	require.Len(t, obs, fundingPageSize+100)
	assert.True(t, obs[0].Rate.Equal(decimal.RequireFromString("0.0001")))
	assert.True(t, obs[len(obs)-1].Rate.Equal(decimal.RequireFromString("0.0002")))
	assert.Equal(t, time.UnixMilli(base).UTC(), obs[0].Time)
}

func TestFundingHistoryPageCap(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	var calls atomic.Int64

	// The server never runs out of data; the client must stop anyway.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeInfoRequest(t, r)
		page := calls.Add(1) - 1
		entries := make([]map[string]any, 0, fundingPageSize)
		for i := 0; i < fundingPageSize; i++ {
			ts := base + (page*int64(fundingPageSize)+int64(i))*3600_000
			entries = append(entries, fundingEntry(req.Coin, ts, "0.0001"))
		}
		json.NewEncoder(w).Encode(entries)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	start := time.UnixMilli(base)
	obs, err := client.FundingHistory(context.Background(), "BTC", start, start.Add(90*24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(maxFundingPages), calls.Load())
	assert.Len(t, obs, maxFundingPages*fundingPageSize)
}

func TestFundingHistoryPartialOnLaterPageFailure(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		entries := make([]map[string]any, 0, fundingPageSize)
		for i := 0; i < fundingPageSize; i++ {
			entries = append(entries, fundingEntry("BTC", base+int64(i)*3600_000, "0.0001"))
		}
		json.NewEncoder(w).Encode(entries)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	start := time.UnixMilli(base)
	obs, err := client.FundingHistory(context.Background(), "BTC", start, start.Add(30*24*time.Hour))

	// A failure past the first page degrades to the partial history
	// instead of throwing away data already in hand.
	require.NoError(t, err)
	assert.Len(t, obs, fundingPageSize)
	assert.Equal(t, int64(2), calls.Load())
}

func TestFundingHistoryShortResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			fundingEntry("NEW", 1700000000000, "0.00005"),
		})
	}))
	defer srv.Close()

	obs, err := newTestClient(srv.URL).FundingHistory(context.Background(), "NEW", time.Now().Add(-30*24*time.Hour), time.Now())
	require.NoError(t, err)
	// Partial history is valid data, not an error.
	require.Len(t, obs, 1)
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{fundingEntry("BTC", 1700000000000, "0.0001")})
	}))
	defer srv.Close()

	obs, err := newTestClient(srv.URL).FundingHistory(context.Background(), "BTC", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
	assert.Len(t, obs, 1)
}

func TestBadRequestIsFatalWithoutRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FundingHistory(context.Background(), "NOPE", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "NOPE", fatal.Coin)
	assert.Equal(t, int64(1), calls.Load(), "4xx must not be retried")
}

func TestRetriesExhaustedBecomeFatal(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FundingHistory(context.Background(), "BTC", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.False(t, IsTransient(err), "escalated error must not look retryable")
	assert.Equal(t, int64(3), calls.Load())
}

func TestCircuitOpensAndFailsFast(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(Config{
		BaseURL:       srv.URL,
		Timeout:       time.Second,
		RatePerSecond: 1000,
		Burst:         100,
		Retry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    2 * time.Millisecond,
		},
		BreakerThreshold: 3,
		BreakerCooldown:  time.Minute,
	})

	_, err := client.FundingHistory(context.Background(), "A", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	require.Equal(t, int64(3), calls.Load())

	// The breaker tripped on the third failure; later assets fail fast
	// without touching the endpoint.
	_, err = client.FundingHistory(context.Background(), "B", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load())
	assert.Contains(t, err.Error(), "circuit open")
}

func TestFatalErrorFormatting(t *testing.T) {
	err := &FatalError{Op: "fundingHistory", Coin: "xyz:TSLA", Err: fmt.Errorf("status 400")}
	assert.Equal(t, "fundingHistory (xyz:TSLA): status 400", err.Error())
}
