package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"hypefunding/internal/funding"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorPositive      = "#34d399"
	colorNegative      = "#f87171"

	overviewWidthPx  = 1400
	overviewHeightPx = 480
)

// BuildOverviewPage assembles the chart overview: the top movers by
// 7-day cumulative funding, and the funding history of the single
// biggest mover.
func BuildOverviewPage(records []funding.Record, topN int) (*components.Page, error) {
	movers := topMovers(records, topN)
	if len(movers) == 0 {
		return nil, fmt.Errorf("no assets with funding data to chart")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(buildMoversBar(movers), buildHistoryLine(movers[0]))
	return page, nil
}

// WriteOverviewHTML renders the overview page as a standalone document.
func WriteOverviewHTML(path string, records []funding.Record, topN int) error {
	page, err := BuildOverviewPage(records, topN)
	if err != nil {
		return &RenderError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Path: path, Err: err}
	}
	if err := renderPage(page, f); err != nil {
		f.Close()
		return &RenderError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	return nil
}

func renderPage(page *components.Page, w io.Writer) error {
	return page.Render(w)
}

// topMovers ranks assets by |7-day cumulative funding|, descending.
func topMovers(records []funding.Record, topN int) []funding.Record {
	if topN <= 0 {
		topN = 10
	}
	movers := make([]funding.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasData {
			movers = append(movers, rec)
		}
	}
	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].Stats.Sum7d.Abs().GreaterThan(movers[j].Stats.Sum7d.Abs())
	})
	if len(movers) > topN {
		movers = movers[:topN]
	}
	return movers
}

func buildMoversBar(movers []funding.Record) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", overviewWidthPx),
			Height:          fmt.Sprintf("%dpx", overviewHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         "Top movers by 7D cumulative funding",
			Subtitle:      "percent over the trailing 7 days",
			Left:          "left",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)

	names := make([]string, len(movers))
	data := make([]opts.BarData, len(movers))
	for i, rec := range movers {
		names[i] = rec.Asset.Display
		pct, _ := rec.Stats.Sum7d.Mul(hundred).Round(4).Float64()
		color := colorPositive
		if pct < 0 {
			color = colorNegative
		}
		data[i] = opts.BarData{
			Value:     pct,
			ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.85)},
		}
	}
	bar.SetXAxis(names)
	bar.AddSeries("7D %", data)
	return bar
}

func buildHistoryLine(rec funding.Record) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", overviewWidthPx),
			Height:          fmt.Sprintf("%dpx", overviewHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s funding history", strings.ToUpper(rec.Asset.Display)),
			Subtitle:   "per-8h rate, percent",
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	xAxis := make([]string, len(rec.History))
	data := make([]opts.LineData, len(rec.History))
	for i, o := range rec.History {
		xAxis[i] = o.Time.UTC().Format("01-02 15:04")
		pct, _ := o.Rate.Mul(hundred).Round(6).Float64()
		data[i] = opts.LineData{Value: pct}
	}
	line.SetXAxis(xAxis)
	line.AddSeries("rate %", data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorPositive, Width: 2}))
	return line
}
