package hyperliquid

import (
	"errors"
	"fmt"
	"time"

	"hypefunding/internal/funding"
	"hypefunding/internal/pkg/retry"
)

const (
	DefaultBaseURL = "https://api.hyperliquid.xyz/info"

	// TradFiDex is the HIP-3 builder dex hosting synthetic
	// stock/commodity/forex perps. The main perp dex is the empty string.
	TradFiDex = "xyz"

	// fundingPageSize is the server page size for fundingHistory; a full
	// page means more data may follow.
	fundingPageSize = 500
	maxFundingPages = 20
)

type Config struct {
	BaseURL          string
	Timeout          time.Duration
	RatePerSecond    float64
	Burst            int
	Retry            retry.Policy
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 3
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry = retry.DefaultPolicy()
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = 8
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	return c
}

// AssetMeta pairs a universe entry with its market context.
type AssetMeta struct {
	Name     string
	Snapshot funding.Snapshot
}

// TransientError covers network failures, timeouts, 429 and 5xx
// responses. These are retried before escalating.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// FatalError covers non-retryable failures: 4xx responses, malformed
// bodies, and transient failures that exhausted their retry budget.
type FatalError struct {
	Op   string
	Coin string
	Err  error
}

func (e *FatalError) Error() string {
	if e.Coin != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Coin, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying. A FatalError
// anywhere in the chain wins even when it wraps a transient cause, so
// an exhausted retry budget is not retried again by an outer layer.
func IsTransient(err error) bool {
	var f *FatalError
	if errors.As(err, &f) {
		return false
	}
	var t *TransientError
	return errors.As(err, &t)
}
