package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Exchange.validate(); err != nil {
		return err
	}
	if err := c.Fetch.validate(); err != nil {
		return err
	}
	if err := c.Report.validate(); err != nil {
		return err
	}
	return nil
}

func (e *ExchangeConfig) validate() error {
	u, err := url.Parse(e.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("exchange.base_url is not a valid URL: %q", e.BaseURL)
	}
	if e.RatePerSecond > 20 {
		return fmt.Errorf("exchange.rate_per_second %.1f exceeds the public API budget", e.RatePerSecond)
	}
	return nil
}

func (f *FetchConfig) validate() error {
	if f.LookbackDays > 90 {
		return fmt.Errorf("fetch.lookback_days must be <= 90, got %d", f.LookbackDays)
	}
	if f.Concurrency > 16 {
		return fmt.Errorf("fetch.concurrency must be <= 16 to stay under exchange rate limits, got %d", f.Concurrency)
	}
	return nil
}

func (r *ReportConfig) validate() error {
	if strings.TrimSpace(r.OutputPath) == "" {
		return fmt.Errorf("report.output_path cannot be blank")
	}
	if r.SnapshotPath != "" && !strings.HasSuffix(strings.ToLower(r.SnapshotPath), ".png") {
		return fmt.Errorf("report.snapshot_path must end in .png: %q", r.SnapshotPath)
	}
	return nil
}
