package main

import (
	"context"
	"flag"
	"log"
	"os"

	"hypefunding/internal/app"
	"hypefunding/internal/config"
	"hypefunding/internal/logger"
)

func main() {
	var (
		mainPerp = flag.Bool("main-perp", false, "include main perp dex assets (default: HIP-3 TradFi only)")
		cfgPath  = flag.String("config", "", "config file path (default configs/config.yaml, optional)")
		outPath  = flag.String("out", "", "report output path (overrides report.output_path)")
		logLevel = flag.String("log-level", "", "log level override (debug/info/warn/error)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}

	level := cfg.App.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger.SetLevel(level)
	logger.SetFile(cfg.App.LogPath, cfg.App.LogMaxSizeMB, cfg.App.LogMaxBackups)

	a := app.New(cfg)
	if err := a.Run(context.Background(), app.Options{
		IncludeMainPerp: *mainPerp,
		OutputPath:      *outPath,
	}); err != nil {
		logger.Errorf("运行失败: %v", err)
		os.Exit(1)
	}
}
