package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Profitflow ProfitflowConfig `yaml:"profitflow"`
	Inputs     InputsConfig     `yaml:"inputs"`
	Engine     EngineConfig     `yaml:"engine"`
	Writer     WriterConfig     `yaml:"writer"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ProfitflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type InputsConfig struct {
	Volume     string `yaml:"volume"`
	Pricing    string `yaml:"pricing"`
	TradeSpend string `yaml:"tradespend"`
}

type EngineConfig struct {
	SpendTypes []string      `yaml:"spend_types"`
	Periods    PeriodsConfig `yaml:"periods"`
	Cache      CacheConfig   `yaml:"cache"`
}

// PeriodsConfig pins the PVM bridge period pair. Zero means auto-detect from
// the volume table: the latest period present is current and the next lower
// present period is previous.
type PeriodsConfig struct {
	Current  int `yaml:"current"`
	Previous int `yaml:"previous"`
}

type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Expiration      time.Duration `yaml:"expiration"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type WriterConfig struct {
	OutputDir         string        `yaml:"output_dir"`
	CurrencyPrecision int           `yaml:"currency_precision"`
	Formats           FormatsConfig `yaml:"formats"`
}

type FormatsConfig struct {
	CSV     CSVConfig     `yaml:"csv"`
	Parquet ParquetConfig `yaml:"parquet"`
}

type CSVConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ParquetConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Compression string `yaml:"compression"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
	MaxAge        int    `yaml:"max_age"`
	DashboardName string `yaml:"dashboard_name"`
}

func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, "config/config.yml", map[string]string{
		environmentProduction: "config/config.production.yml",
		environmentStaging:    "config/config.staging.yml",
	})

	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Engine: EngineConfig{
			SpendTypes: []string{"Agreement", "Activity"},
			Cache: CacheConfig{
				Enabled:         true,
				Expiration:      15 * time.Minute,
				CleanupInterval: 30 * time.Minute,
			},
		},
		Writer: WriterConfig{
			OutputDir:         "output",
			CurrencyPrecision: 2,
			Formats: FormatsConfig{
				CSV: CSVConfig{Enabled: true},
			},
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Profitflow.Name == "" {
		return fmt.Errorf("profitflow.name is required")
	}

	if cfg.Profitflow.Version == "" {
		return fmt.Errorf("profitflow.version is required")
	}

	// Development tolerates missing input paths so they can come from flags;
	// production-like environments must name them up front.
	if IsProductionLike(AppEnvironment()) {
		if cfg.Inputs.Volume == "" || cfg.Inputs.Pricing == "" || cfg.Inputs.TradeSpend == "" {
			return fmt.Errorf("inputs.volume, inputs.pricing and inputs.tradespend are required in %s", AppEnvironment())
		}
	}

	if len(cfg.Engine.SpendTypes) == 0 {
		return fmt.Errorf("engine.spend_types must name at least one type")
	}
	seen := make(map[string]struct{}, len(cfg.Engine.SpendTypes))
	for _, t := range cfg.Engine.SpendTypes {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("engine.spend_types must not contain empty entries")
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("engine.spend_types contains duplicate type %q", t)
		}
		seen[t] = struct{}{}
	}

	if cfg.Engine.Cache.Enabled {
		if cfg.Engine.Cache.Expiration <= 0 {
			return fmt.Errorf("engine.cache.expiration must be greater than 0")
		}
		if cfg.Engine.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("engine.cache.cleanup_interval must be greater than 0")
		}
	}

	if cfg.Writer.OutputDir == "" {
		return fmt.Errorf("writer.output_dir is required")
	}
	if cfg.Writer.CurrencyPrecision < 2 {
		return fmt.Errorf("writer.currency_precision must be at least 2")
	}
	if !cfg.Writer.Formats.CSV.Enabled && !cfg.Writer.Formats.Parquet.Enabled {
		return fmt.Errorf("writer.formats must enable at least one of csv or parquet")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if cfg.Storage.S3.AccessKeyID == "" || cfg.Storage.S3.SecretAccessKey == "" {
			return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key are required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
