package processor

import (
	"testing"

	"profitflow/models"
)

func TestJoinMasterZeroFillsUnmatched(t *testing.T) {
	volume := []models.VolumeRecord{
		{Period: 2024, Channel: "Retail", Category: "Snacks", Customer: "Acme", ProductKey: "1", Units: 10},
		{Period: 2024, Channel: "Retail", Category: "Snacks", Customer: "Acme", ProductKey: "2", Units: 5},
	}
	prices := buildPriceIndex([]models.PriceRecord{
		{Period: 2024, Channel: "Retail", ProductKey: "1", ListPrice: 2, StdCost: 1, GtgPct: 0.05},
	})
	pivot := PivotTradeSpend(nil)

	rows, stats := JoinMaster(volume, prices, pivot, []string{"Agreement"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 master rows, got %d", len(rows))
	}
	if rows[0].ListPrice != 2 || rows[0].GtgPct != 0.05 {
		t.Errorf("matched row lost price data: %+v", rows[0])
	}
	if rows[1].ListPrice != 0 || rows[1].StdCost != 0 || rows[1].GtgPct != 0 {
		t.Errorf("unmatched row not zero-filled: %+v", rows[1])
	}
	if rows[1].SpendPct["Agreement"] != 0 {
		t.Errorf("unmatched spend pct should be zero, got %v", rows[1].SpendPct["Agreement"])
	}
	if stats.UnmatchedPrice != 1 {
		t.Errorf("expected 1 unmatched price key, got %d", stats.UnmatchedPrice)
	}
	if stats.UnmatchedSpend != 2 {
		t.Errorf("expected 2 unmatched spend keys, got %d", stats.UnmatchedSpend)
	}
}

func TestJoinMasterEmptyPriceTable(t *testing.T) {
	volume := []models.VolumeRecord{
		{Period: 2024, Channel: "Retail", Category: "Snacks", Customer: "Acme", ProductKey: "1", Units: 10},
	}

	rows, stats := JoinMaster(volume, buildPriceIndex(nil), PivotTradeSpend(nil), []string{"Agreement"})
	if len(rows) != 1 {
		t.Fatalf("expected the volume row to survive an empty price table")
	}
	if stats.UnmatchedPrice != 1 {
		t.Errorf("expected unmatched price count 1, got %d", stats.UnmatchedPrice)
	}
}

func TestBuildPriceIndexNormalizesKeys(t *testing.T) {
	idx := buildPriceIndex([]models.PriceRecord{
		{Period: 2024, Channel: "Retail", ProductKey: "123.0", ListPrice: 2},
	})
	p, ok := idx[priceKey{Period: 2024, Channel: "Retail", ProductKey: "123"}]
	if !ok {
		t.Fatal("expected index lookup on the normalized key to hit")
	}
	if p.ListPrice != 2 {
		t.Errorf("unexpected price record: %+v", p)
	}
}

func TestPivotTradeSpendSumsByType(t *testing.T) {
	rules := []models.TradeSpendRule{
		{Period: 2024, Channel: "Retail", Category: "Snacks", Type: "Agreement", AccountCode: "42100", Percentage: 0.04},
		{Period: 2024, Channel: "Retail", Category: "Snacks", Type: "Agreement", AccountCode: "42200", Percentage: 0.02},
		{Period: 2024, Channel: "Retail", Category: "Snacks", Type: "Activity", AccountCode: "43100", Percentage: 0.01},
	}

	pivot := PivotTradeSpend(rules)
	byType := pivot[spendKey{Period: 2024, Channel: "Retail", Category: "Snacks"}]
	if byType == nil {
		t.Fatal("expected pivot entry for the rule key")
	}
	if got := byType["Agreement"]; !almostEqual(got, 0.06) {
		t.Errorf("Agreement pct = %v, want 0.06", got)
	}
	if got := byType["Activity"]; !almostEqual(got, 0.01) {
		t.Errorf("Activity pct = %v, want 0.01", got)
	}
}
