package config

import "hypefunding/internal/hyperliquid"

const DefaultOutputFile = "hype_funding_report.html"

// Default returns a configuration that works with zero setup; the tool
// must be runnable without any config file at all.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogMaxSizeMB <= 0 {
		c.App.LogMaxSizeMB = 20
	}
	if c.App.LogMaxBackups <= 0 {
		c.App.LogMaxBackups = 3
	}

	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = hyperliquid.DefaultBaseURL
	}
	if c.Exchange.TimeoutSeconds <= 0 {
		c.Exchange.TimeoutSeconds = 15
	}
	if c.Exchange.RatePerSecond <= 0 {
		c.Exchange.RatePerSecond = 3
	}
	if c.Exchange.Burst <= 0 {
		c.Exchange.Burst = 1
	}
	if c.Exchange.RetryMaxAttempts <= 0 {
		c.Exchange.RetryMaxAttempts = 3
	}
	if c.Exchange.RetryBaseDelayMS <= 0 {
		c.Exchange.RetryBaseDelayMS = 1000
	}
	if c.Exchange.RetryMaxDelayMS <= 0 {
		c.Exchange.RetryMaxDelayMS = 10000
	}
	if c.Exchange.BreakerThreshold <= 0 {
		c.Exchange.BreakerThreshold = 8
	}
	if c.Exchange.BreakerCooldownSeconds <= 0 {
		c.Exchange.BreakerCooldownSeconds = 30
	}

	if c.Fetch.LookbackDays <= 0 {
		c.Fetch.LookbackDays = 30
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = 8
	}

	if c.Report.OutputPath == "" {
		c.Report.OutputPath = DefaultOutputFile
	}
	if c.Report.HistoryPoints <= 0 {
		c.Report.HistoryPoints = 500
	}
	if c.Report.TopN <= 0 {
		c.Report.TopN = 10
	}
}
