package config

// Config 是费率追踪器的主配置载体。
type Config struct {
	App      AppConfig      `toml:"app"`
	Exchange ExchangeConfig `toml:"exchange"`
	Fetch    FetchConfig    `toml:"fetch"`
	Report   ReportConfig   `toml:"report"`
}

type AppConfig struct {
	LogLevel      string `toml:"log_level"`
	LogPath       string `toml:"log_path"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
}

type ExchangeConfig struct {
	BaseURL                string  `toml:"base_url"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	RatePerSecond          float64 `toml:"rate_per_second"`
	Burst                  int     `toml:"burst"`
	RetryMaxAttempts       int     `toml:"retry_max_attempts"`
	RetryBaseDelayMS       int     `toml:"retry_base_delay_ms"`
	RetryMaxDelayMS        int     `toml:"retry_max_delay_ms"`
	BreakerThreshold       int     `toml:"breaker_threshold"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds"`
}

type FetchConfig struct {
	LookbackDays int `toml:"lookback_days"`
	Concurrency  int `toml:"concurrency"`
}

type ReportConfig struct {
	OutputPath string `toml:"output_path"`
	// SnapshotPath, when set, additionally renders a PNG overview of the
	// top movers via headless Chrome.
	SnapshotPath string `toml:"snapshot_path"`
	// OverviewPath, when set, writes the chart overview as its own HTML
	// page.
	OverviewPath  string `toml:"overview_path"`
	HistoryPoints int    `toml:"history_points"`
	TopN          int    `toml:"top_n"`
}
