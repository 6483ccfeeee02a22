package funding

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset 是目录解析后的单个永续合约。
type Asset struct {
	// ID is the raw coin name on the exchange, e.g. "BTC" or "xyz:TSLA".
	ID string
	// Display strips the builder-dex prefix for presentation.
	Display string
	// TradFi marks HIP-3 synthetic assets tracking stocks/commodities/forex.
	TradFi bool
}

// Observation is a single historical funding payment. Rates are quoted
// per 8-hour period.
type Observation struct {
	Coin string          `json:"coin"`
	Time time.Time       `json:"time"`
	Rate decimal.Decimal `json:"rate"`
}

// Snapshot carries the latest market context for an asset at fetch time.
type Snapshot struct {
	Volume24h    float64
	OpenInterest float64
	MarkPrice    float64
	Funding      float64
}

// Stats are derived from an asset's funding history. All sums are over
// trailing windows measured back from the latest observation.
type Stats struct {
	Rate8h     decimal.Decimal
	Sum1d      decimal.Decimal
	Sum3d      decimal.Decimal
	Sum7d      decimal.Decimal
	Sum30d     decimal.Decimal
	Avg        decimal.Decimal
	Max        decimal.Decimal
	Min        decimal.Decimal
	Annualized decimal.Decimal
	Count      int
}

// Record is one fully aggregated report row. When HasData is false the
// asset had no usable history (empty or failed fetch) and every Stats
// field is meaningless; renderers must show a marker, never a zero.
type Record struct {
	Asset    Asset
	HasData  bool
	Stats    Stats
	Snapshot Snapshot
	History  []Observation
	FetchErr string
}

// PeriodsPerYear is the number of 8-hour funding periods in a year
// (365*24/8); the annualized rate is a linear extrapolation, not
// compounded.
var PeriodsPerYear = decimal.NewFromInt(1095)
