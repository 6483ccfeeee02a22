// Package hyperliquid is a read-only client for the exchange's public
// info endpoint. All market-data queries are POSTs against a single
// URL, distinguished by a "type" field in the JSON body.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"hypefunding/internal/funding"
	"hypefunding/internal/logger"
	"hypefunding/internal/pkg/circuit"
)

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuit.Breaker
}

func New(cfg Config) *Client {
	final := cfg.withDefaults()
	return &Client{
		cfg:     final,
		http:    &http.Client{Timeout: final.Timeout},
		limiter: rate.NewLimiter(rate.Limit(final.RatePerSecond), final.Burst),
		breaker: circuit.NewBreaker("hyperliquid", final.BreakerThreshold, final.BreakerCooldown),
	}
}

// MetaAndAssetCtxs returns the perp universe of one dex together with
// each asset's volume/open-interest context. dex="" selects the main
// perp dex, TradFiDex the HIP-3 builder dex.
func (c *Client) MetaAndAssetCtxs(ctx context.Context, dex string) ([]AssetMeta, error) {
	payload := map[string]any{"type": "metaAndAssetCtxs"}
	if dex != "" {
		payload["dex"] = dex
	}
	op := "metaAndAssetCtxs"

	body, err := c.request(ctx, op, payload)
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, &FatalError{Op: op, Err: fmt.Errorf("unexpected response shape")}
	}
	parts := root.Array()
	if len(parts) < 2 {
		return nil, &FatalError{Op: op, Err: fmt.Errorf("response has %d elements, want 2", len(parts))}
	}

	universe := parts[0].Get("universe").Array()
	ctxs := parts[1].Array()

	out := make([]AssetMeta, 0, len(universe))
	for i, entry := range universe {
		name := entry.Get("name").String()
		if name == "" {
			continue
		}
		meta := AssetMeta{Name: name}
		if i < len(ctxs) {
			meta.Snapshot = funding.Snapshot{
				Volume24h:    ctxs[i].Get("dayNtlVlm").Float(),
				OpenInterest: ctxs[i].Get("openInterest").Float(),
				MarkPrice:    ctxs[i].Get("markPx").Float(),
				Funding:      ctxs[i].Get("funding").Float(),
			}
		}
		out = append(out, meta)
	}
	return out, nil
}

// FundingHistory returns the funding observations for coin inside
// [start, end], paginating until a short page. Once a page has been
// fetched, a failure on a later page degrades to the partial result:
// assets with limited history are valid, and so is a tail cut short by
// the API.
func (c *Client) FundingHistory(ctx context.Context, coin string, start, end time.Time) ([]funding.Observation, error) {
	op := "fundingHistory"
	var all []funding.Observation
	current := start.UnixMilli()
	endMs := end.UnixMilli()

	for page := 0; page < maxFundingPages; page++ {
		payload := map[string]any{
			"type":      op,
			"coin":      coin,
			"startTime": current,
			"endTime":   endMs,
		}
		body, err := c.request(ctx, op, payload)
		if err != nil {
			if len(all) > 0 {
				logger.Warnf("[hyperliquid] %s 分页中断，保留 %d 条: %v", coin, len(all), err)
				return all, nil
			}
			if ferr, ok := err.(*FatalError); ok {
				ferr.Coin = coin
			}
			return nil, err
		}

		root := gjson.ParseBytes(body)
		if !root.IsArray() {
			return nil, &FatalError{Op: op, Coin: coin, Err: fmt.Errorf("unexpected response shape")}
		}
		entries := root.Array()
		lastTime := int64(0)
		for _, e := range entries {
			rateStr := e.Get("fundingRate").String()
			r, perr := decimal.NewFromString(rateStr)
			if perr != nil {
				continue
			}
			ts := e.Get("time").Int()
			if ts > lastTime {
				lastTime = ts
			}
			all = append(all, funding.Observation{
				Coin: coin,
				Time: time.UnixMilli(ts).UTC(),
				Rate: r,
			})
		}

		if len(entries) < fundingPageSize {
			break
		}
		current = lastTime + 1
	}
	return all, nil
}

// request runs one info query under the retry policy. Transient errors
// exhausting the budget are flattened into a FatalError so callers see
// a single non-retryable failure.
func (c *Client) request(ctx context.Context, op string, payload map[string]any) ([]byte, error) {
	var body []byte
	err := c.cfg.Retry.Do(ctx, IsTransient, func(ctx context.Context) error {
		var err error
		body, err = c.post(ctx, op, payload)
		return err
	})
	if err == nil {
		return body, nil
	}
	if IsTransient(err) {
		return nil, &FatalError{Op: op, Err: fmt.Errorf("retries exhausted: %w", err)}
	}
	return nil, err
}

func (c *Client) post(ctx context.Context, op string, payload map[string]any) ([]byte, error) {
	if !c.breaker.Allow() {
		return nil, &TransientError{Op: op, Err: fmt.Errorf("circuit open")}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, &FatalError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(buf))
	if err != nil {
		return nil, &FatalError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &TransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.breaker.RecordFailure()
		return nil, &TransientError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		// 4xx means the request itself is wrong, not that the endpoint
		// is unhealthy.
		c.breaker.RecordSuccess()
		return nil, &FatalError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &TransientError{Op: op, Err: err}
	}
	c.breaker.RecordSuccess()
	return data, nil
}
