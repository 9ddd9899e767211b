package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"profitflow/config"
	"profitflow/logger"
	"profitflow/models"
	"profitflow/processor"
	"profitflow/reader"
	"profitflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	volumePath := flag.String("volume", "", "Override path to the unit volume table")
	pricingPath := flag.String("pricing", "", "Override path to the pricing table")
	tradeSpendPath := flag.String("tradespend", "", "Override path to the trade spend table")
	outputDir := flag.String("output", "", "Override output directory")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if *volumePath != "" {
		cfg.Inputs.Volume = *volumePath
	}
	if *pricingPath != "" {
		cfg.Inputs.Pricing = *pricingPath
	}
	if *tradeSpendPath != "" {
		cfg.Inputs.TradeSpend = *tradeSpendPath
	}
	if *outputDir != "" {
		cfg.Writer.OutputDir = *outputDir
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Profitflow.Name,
		"version":     cfg.Profitflow.Version,
		"environment": config.AppEnvironment(),
	}).Info("starting profitflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Storage.S3.Enabled {
		logger.InitCloudWatch(cfg.Storage.S3.Region, cfg.Profitflow.Name, cfg.Logging.DashboardName)
	}
	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	volume, err := reader.LoadVolume(cfg.Inputs.Volume)
	if err != nil {
		log.WithError(err).Error("failed to load volume table")
		os.Exit(1)
	}
	pricing, err := reader.LoadPricing(cfg.Inputs.Pricing)
	if err != nil {
		log.WithError(err).Error("failed to load pricing table")
		os.Exit(1)
	}
	tradeSpend, err := reader.LoadTradeSpend(cfg.Inputs.TradeSpend)
	if err != nil {
		log.WithError(err).Error("failed to load trade spend table")
		os.Exit(1)
	}

	engine := processor.NewEngine(cfg)
	result, err := engine.Run(models.Inputs{
		Volume:     volume,
		Pricing:    pricing,
		TradeSpend: tradeSpend,
	})
	if err != nil {
		log.WithError(err).Error("engine run failed")
		os.Exit(1)
	}

	exporter, err := writer.NewExporter(cfg)
	if err != nil {
		log.WithError(err).Error("failed to create exporter")
		os.Exit(1)
	}
	if err := exporter.Export(ctx, result); err != nil {
		log.WithError(err).Error("export failed")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"run_id":          result.RunID,
		"master_rows":     len(result.Master),
		"pvm_rows":        len(result.PVM),
		"ledger_lines":    len(result.Ledger),
		"current_period":  result.CurrentPeriod,
		"previous_period": result.PreviousPeriod,
		"unmatched_price": result.JoinStats.UnmatchedPrice,
		"unmatched_spend": result.JoinStats.UnmatchedSpend,
	}).Info("profitflow run completed")
}
