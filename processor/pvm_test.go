package processor

import (
	"testing"

	"profitflow/models"
)

func bridgeRow(category string, units, nts float64) models.MasterRow {
	return models.MasterRow{Category: category, Units: units, NetTotalSales: nts}
}

func TestBuildBridgeSingleCategory(t *testing.T) {
	// One category means no mix shift: the delta splits cleanly into a
	// price effect and a volume effect. Previous period moves 8 units at a
	// 1.60 unit price, current moves 10 units at 1.70.
	previous := []models.MasterRow{bridgeRow("Snacks", 8, 12.80)}
	current := []models.MasterRow{bridgeRow("Snacks", 10, 17.00)}

	results := BuildBridge(current, previous)
	if len(results) != 1 {
		t.Fatalf("expected 1 bridge row, got %d", len(results))
	}
	r := results[0]

	if !almostEqual(r.PriceEffect, 1.00) {
		t.Errorf("PriceEffect = %v, want 1.00", r.PriceEffect)
	}
	if !almostEqual(r.VolumeEffect, 3.20) {
		t.Errorf("VolumeEffect = %v, want 3.20", r.VolumeEffect)
	}
	if !almostEqual(r.MixEffect, 0) {
		t.Errorf("MixEffect = %v, want 0", r.MixEffect)
	}
	if !almostEqual(r.TotalDelta, 4.20) {
		t.Errorf("TotalDelta = %v, want 4.20", r.TotalDelta)
	}
}

func TestBuildBridgeAdditivity(t *testing.T) {
	previous := []models.MasterRow{
		bridgeRow("Snacks", 100, 250),
		bridgeRow("Drinks", 50, 90),
	}
	current := []models.MasterRow{
		bridgeRow("Snacks", 80, 220),
		bridgeRow("Drinks", 75, 160),
	}

	for _, r := range BuildBridge(current, previous) {
		sum := r.PriceEffect + r.VolumeEffect + r.MixEffect
		if !almostEqual(sum, r.TotalDelta) {
			t.Errorf("category %s: effects sum %v != total delta %v", r.Category, sum, r.TotalDelta)
		}
	}
}

func TestBuildBridgeCategoryAppearsAndDisappears(t *testing.T) {
	previous := []models.MasterRow{bridgeRow("Retired", 40, 60)}
	current := []models.MasterRow{bridgeRow("Launched", 30, 45)}

	results := BuildBridge(current, previous)
	if len(results) != 2 {
		t.Fatalf("expected union of categories, got %d rows", len(results))
	}

	byCat := make(map[string]models.PVMResult, len(results))
	for _, r := range results {
		byCat[r.Category] = r
	}

	launched := byCat["Launched"]
	if !almostEqual(launched.TotalDelta, 45) {
		t.Errorf("new category delta = %v, want 45", launched.TotalDelta)
	}
	retired := byCat["Retired"]
	if !almostEqual(retired.TotalDelta, -60) {
		t.Errorf("retired category delta = %v, want -60", retired.TotalDelta)
	}

	for _, r := range results {
		sum := r.PriceEffect + r.VolumeEffect + r.MixEffect
		if !almostEqual(sum, r.TotalDelta) {
			t.Errorf("category %s: effects sum %v != total delta %v", r.Category, sum, r.TotalDelta)
		}
	}
}

func TestBuildBridgeSortedByCategory(t *testing.T) {
	previous := []models.MasterRow{bridgeRow("Zed", 1, 1), bridgeRow("Alpha", 1, 1)}
	current := []models.MasterRow{bridgeRow("Mid", 1, 1)}

	results := BuildBridge(current, previous)
	if results[0].Category != "Alpha" || results[1].Category != "Mid" || results[2].Category != "Zed" {
		t.Errorf("categories not sorted: %+v", results)
	}
}
