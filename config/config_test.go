package config

import (
	"os"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T) string {
	t.Helper()
	content := `profitflow:
  name: "TestApp"
  version: "1.0"
inputs:
  volume: "CSV/Vol_Actuals.csv"
  pricing: "CSV/Pricing_Cost.csv"
  tradespend: "CSV/Trade_Spend.csv"
engine:
  spend_types: ["Agreement", "Activity"]
writer:
  output_dir: "output"
  currency_precision: 2
storage:
  s3:
    enabled: false
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Profitflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Profitflow.Name)
	}
	if cfg.Inputs.Volume != "CSV/Vol_Actuals.csv" {
		t.Errorf("unexpected volume path: %s", cfg.Inputs.Volume)
	}
	if !cfg.Writer.Formats.CSV.Enabled {
		t.Errorf("csv format should default to enabled")
	}
	if cfg.Engine.Cache.Expiration != 15*time.Minute {
		t.Errorf("unexpected cache expiration: %v", cfg.Engine.Cache.Expiration)
	}
}

func TestLoadConfigDuplicateSpendTypes(t *testing.T) {
	content := `profitflow:
  name: "TestApp"
  version: "1.0"
engine:
  spend_types: ["Agreement", "Agreement"]
writer:
  output_dir: "output"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected error for duplicate spend types")
	}
}

func TestLoadConfigProductionRequiresInputs(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	content := `profitflow:
  name: "TestApp"
  version: "1.0"
engine:
  spend_types: ["Agreement"]
writer:
  output_dir: "output"
`
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	defer os.Remove(f.Name())

	if _, err := LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected error for missing input paths in production")
	}
}

func TestAppEnvironmentAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", EnvironmentDevelopment},
		{"prod", EnvironmentProduction},
		{"PROD", EnvironmentProduction},
		{"stagging", EnvironmentStaging},
		{"production", EnvironmentProduction},
	}
	for _, c := range cases {
		t.Setenv("APP_ENV", c.raw)
		if got := AppEnvironment(); got != c.want {
			t.Errorf("AppEnvironment with APP_ENV=%q = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"valid-bucket", true},
		{"Invalid", false},
		{"ab", false},
		{"my..bucket", false},
	}
	for _, c := range cases {
		if got := isValidS3Bucket(c.name); got != c.valid {
			t.Errorf("isValidS3Bucket(%q) = %v, want %v", c.name, got, c.valid)
		}
	}
}
