package processor

import (
	"testing"
	"time"

	appconfig "profitflow/config"
	"profitflow/models"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Engine: appconfig.EngineConfig{
			SpendTypes: []string{"Agreement", "Activity"},
			Cache: appconfig.CacheConfig{
				Enabled:         true,
				Expiration:      time.Minute,
				CleanupInterval: time.Minute,
			},
		},
	}
}

func testInputs() models.Inputs {
	return models.Inputs{
		Volume: []models.VolumeRecord{
			{Period: 2023, Channel: "Retail", Category: "Snacks", Customer: "Acme", ProductKey: "1", Units: 100},
			{Period: 2024, Channel: "Retail", Category: "Snacks", Customer: "Acme", ProductKey: "1", Units: 120},
		},
		Pricing: []models.PriceRecord{
			{Period: 2023, Channel: "Retail", ProductKey: "1", ListPrice: 2, StdCost: 1, GtgPct: 0.05},
			{Period: 2024, Channel: "Retail", ProductKey: "1", ListPrice: 2.1, StdCost: 1, GtgPct: 0.05},
		},
		TradeSpend: []models.TradeSpendRule{
			{Period: 2024, Channel: "Retail", Category: "Snacks", Type: "Agreement", AccountCode: "42100", AccountName: "Volume Rebate", Percentage: 0.04},
		},
	}
}

func TestEngineRun(t *testing.T) {
	result, err := NewEngine(testConfig()).Run(testInputs())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(result.Master) != 2 {
		t.Errorf("expected 2 master rows, got %d", len(result.Master))
	}
	if result.CurrentPeriod != 2024 || result.PreviousPeriod != 2023 {
		t.Errorf("expected auto-detected periods 2024/2023, got %d/%d", result.CurrentPeriod, result.PreviousPeriod)
	}
	if result.PVMSkipped {
		t.Error("bridge should not be skipped with two periods present")
	}
	if len(result.PVM) != 1 {
		t.Errorf("expected 1 bridge row, got %d", len(result.PVM))
	}
	if result.RunID == "" || result.InputHash == "" {
		t.Error("run id and input hash must be set")
	}
}

func TestEngineMemoizesOnInputHash(t *testing.T) {
	engine := NewEngine(testConfig())

	first, err := engine.Run(testInputs())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Run(testInputs())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first != second {
		t.Error("expected the memoized result for identical inputs")
	}

	changed := testInputs()
	changed.Volume[0].Units = 99
	third, err := engine.Run(changed)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third == first {
		t.Error("changed inputs must not hit the cache")
	}
}

func TestEngineDeterministicAcrossInstances(t *testing.T) {
	a, err := NewEngine(testConfig()).Run(testInputs())
	if err != nil {
		t.Fatalf("first engine: %v", err)
	}
	b, err := NewEngine(testConfig()).Run(testInputs())
	if err != nil {
		t.Fatalf("second engine: %v", err)
	}

	if a.InputHash != b.InputHash {
		t.Errorf("input hashes differ: %s vs %s", a.InputHash, b.InputHash)
	}
	if len(a.Master) != len(b.Master) {
		t.Fatalf("master row counts differ: %d vs %d", len(a.Master), len(b.Master))
	}
	for i := range a.Master {
		if !almostEqual(a.Master[i].GrossProfit, b.Master[i].GrossProfit) {
			t.Errorf("row %d: gross profit differs: %v vs %v", i, a.Master[i].GrossProfit, b.Master[i].GrossProfit)
		}
	}
}

func TestEngineRejectsUnknownSpendType(t *testing.T) {
	inputs := testInputs()
	inputs.TradeSpend = append(inputs.TradeSpend, models.TradeSpendRule{
		Period: 2024, Channel: "Retail", Category: "Snacks", Type: "Slush Fund", AccountCode: "49999", Percentage: 0.01,
	})

	if _, err := NewEngine(testConfig()).Run(inputs); err == nil {
		t.Fatal("expected error for spend type outside the configured set")
	}
}

func TestEngineSkipsBridgeWithSinglePeriod(t *testing.T) {
	inputs := testInputs()
	inputs.Volume = inputs.Volume[1:]
	inputs.Pricing = inputs.Pricing[1:]

	result, err := NewEngine(testConfig()).Run(inputs)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.PVMSkipped {
		t.Error("expected bridge skip with only one period of data")
	}
	if len(result.PVM) != 0 {
		t.Errorf("expected no bridge rows, got %d", len(result.PVM))
	}
}

func TestEngineConfiguredPeriodPair(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.Periods.Current = 2024
	cfg.Engine.Periods.Previous = 2023

	result, err := NewEngine(cfg).Run(testInputs())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.CurrentPeriod != 2024 || result.PreviousPeriod != 2023 {
		t.Errorf("configured periods not honored: %d/%d", result.CurrentPeriod, result.PreviousPeriod)
	}
}
