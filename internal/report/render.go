// Package report turns aggregated funding records into a single
// self-contained HTML document with client-side sort, search and
// per-asset history charts.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"hypefunding/internal/funding"
)

var hundred = decimal.NewFromInt(100)

func decFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// RenderError aborts the run: a report that cannot be written means the
// whole invocation produced nothing.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rendering report to %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("rendering report: %v", e.Err)
}
func (e *RenderError) Unwrap() error { return e.Err }

type Data struct {
	GeneratedAt time.Time
	RunID       string
	MainCount   int
	TradFiCount int
	Records     []funding.Record
	// HistoryPoints caps the embedded per-asset chart history.
	HistoryPoints int
}

type row struct {
	Name         string  `json:"name"`
	DisplayName  string  `json:"displayName"`
	TradFi       bool    `json:"tradFi"`
	HasData      bool    `json:"hasData"`
	Volume24h    float64 `json:"volume24h"`
	OpenInterest float64 `json:"openInterest"`
	Rate8h       float64 `json:"rate8h"`
	Annualized   float64 `json:"annualized"`
	Sum1d        float64 `json:"sum1d"`
	Sum3d        float64 `json:"sum3d"`
	Sum7d        float64 `json:"sum7d"`
	Sum30d       float64 `json:"sum30d"`
	Avg          float64 `json:"avg"`
	Max          float64 `json:"max"`
	Min          float64 `json:"min"`
	Count        int     `json:"count"`
}

type chartPoint struct {
	Time int64   `json:"time"`
	Rate float64 `json:"rate"` // percent
}

type pageModel struct {
	Title       string
	GeneratedAt string
	RunID       string
	MainCount   int
	TradFiCount int
	TotalCount  int
	Rows        template.JS
	Charts      template.JS
}

var pageTemplate = template.Must(template.New("report").Parse(reportTemplate))

// Render writes the report HTML. The document depends on nothing but a
// CDN-hosted charting script, so it can be opened straight from disk.
func Render(w io.Writer, data Data) error {
	rows := make([]row, 0, len(data.Records))
	charts := make(map[string][]chartPoint, len(data.Records))

	for _, rec := range data.Records {
		r := row{
			Name:         rec.Asset.ID,
			DisplayName:  rec.Asset.Display,
			TradFi:       rec.Asset.TradFi,
			HasData:      rec.HasData,
			Volume24h:    rec.Snapshot.Volume24h,
			OpenInterest: rec.Snapshot.OpenInterest,
		}
		if rec.HasData {
			r.Rate8h = decFloat(rec.Stats.Rate8h)
			r.Annualized = decFloat(rec.Stats.Annualized)
			r.Sum1d = decFloat(rec.Stats.Sum1d)
			r.Sum3d = decFloat(rec.Stats.Sum3d)
			r.Sum7d = decFloat(rec.Stats.Sum7d)
			r.Sum30d = decFloat(rec.Stats.Sum30d)
			r.Avg = decFloat(rec.Stats.Avg)
			r.Max = decFloat(rec.Stats.Max)
			r.Min = decFloat(rec.Stats.Min)
			r.Count = rec.Stats.Count
		}
		rows = append(rows, r)

		if len(rec.History) > 0 {
			charts[rec.Asset.ID] = historyPoints(rec.History, data.HistoryPoints)
		}
	}

	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return &RenderError{Err: err}
	}
	chartsJSON, err := json.Marshal(charts)
	if err != nil {
		return &RenderError{Err: err}
	}

	model := pageModel{
		Title:       "Hyperliquid Funding Tracker",
		GeneratedAt: data.GeneratedAt.Format("2006-01-02 15:04:05"),
		RunID:       data.RunID,
		MainCount:   data.MainCount,
		TradFiCount: data.TradFiCount,
		TotalCount:  data.MainCount + data.TradFiCount,
		Rows:        template.JS(rowsJSON),
		Charts:      template.JS(chartsJSON),
	}
	if err := pageTemplate.Execute(w, model); err != nil {
		return &RenderError{Err: err}
	}
	return nil
}

// WriteFile renders the report to path, overwriting any previous run's
// output.
func WriteFile(path string, data Data) error {
	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Path: path, Err: err}
	}
	if err := Render(f, data); err != nil {
		f.Close()
		return &RenderError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	return nil
}

func historyPoints(history []funding.Observation, limit int) []chartPoint {
	obs := history
	if limit > 0 && len(obs) > limit {
		obs = obs[len(obs)-limit:]
	}
	points := make([]chartPoint, 0, len(obs))
	for _, o := range obs {
		rate, _ := o.Rate.Mul(hundred).Float64()
		points = append(points, chartPoint{Time: o.Time.UnixMilli(), Rate: rate})
	}
	return points
}
