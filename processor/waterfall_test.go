package processor

import (
	"math"
	"testing"

	"profitflow/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeWaterfall(t *testing.T) {
	rows := []models.MasterRow{{
		Period:     2024,
		Channel:    "Retail",
		Category:   "Snacks",
		Customer:   "Acme",
		ProductKey: "1",
		Units:      10,
		ListPrice:  2.00,
		StdCost:    1.00,
		GtgPct:     0.05,
		SpendPct:   map[string]float64{"Agreement": 0.10},
		SpendValue: map[string]float64{},
	}}

	out := ComputeWaterfall(rows, []string{"Agreement"})
	r := out[0]

	if !almostEqual(r.GrossSales, 20.00) {
		t.Errorf("GrossSales = %v, want 20.00", r.GrossSales)
	}
	if !almostEqual(r.OffInvoice, 1.00) {
		t.Errorf("OffInvoice = %v, want 1.00", r.OffInvoice)
	}
	if !almostEqual(r.NetTradeSales, 19.00) {
		t.Errorf("NetTradeSales = %v, want 19.00", r.NetTradeSales)
	}
	if !almostEqual(r.SpendValue["Agreement"], 2.00) {
		t.Errorf("SpendValue[Agreement] = %v, want 2.00", r.SpendValue["Agreement"])
	}
	if !almostEqual(r.TradeSpendValue, 2.00) {
		t.Errorf("TradeSpendValue = %v, want 2.00", r.TradeSpendValue)
	}
	if !almostEqual(r.NetTotalSales, 17.00) {
		t.Errorf("NetTotalSales = %v, want 17.00", r.NetTotalSales)
	}
	if !almostEqual(r.COGS, 10.00) {
		t.Errorf("COGS = %v, want 10.00", r.COGS)
	}
	if !almostEqual(r.GrossProfit, 7.00) {
		t.Errorf("GrossProfit = %v, want 7.00", r.GrossProfit)
	}
}

func TestComputeWaterfallConservation(t *testing.T) {
	rows := []models.MasterRow{
		{
			Units: 37, ListPrice: 3.19, StdCost: 1.47, GtgPct: 0.032,
			SpendPct:   map[string]float64{"Agreement": 0.051, "Activity": 0.018},
			SpendValue: map[string]float64{},
		},
		{
			Units: 4, ListPrice: 0.99, StdCost: 1.20, GtgPct: 0,
			SpendPct:   map[string]float64{"Agreement": 0, "Activity": 0.07},
			SpendValue: map[string]float64{},
		},
	}

	out := ComputeWaterfall(rows, []string{"Agreement", "Activity"})
	for i, r := range out {
		got := r.GrossSales - r.OffInvoice - r.TradeSpendValue - r.COGS
		if !almostEqual(got, r.GrossProfit) {
			t.Errorf("row %d: conservation broken: %v != %v", i, got, r.GrossProfit)
		}
	}
}

func TestComputeWaterfallZeroNetTotalSales(t *testing.T) {
	rows := []models.MasterRow{{
		Units: 0, ListPrice: 2, StdCost: 1, GtgPct: 0.05,
		SpendPct:   map[string]float64{"Agreement": 0.10},
		SpendValue: map[string]float64{},
	}}

	out := ComputeWaterfall(rows, []string{"Agreement"})
	if out[0].GPMarginPct != 0 {
		t.Errorf("GPMarginPct for zero net total sales = %v, want 0", out[0].GPMarginPct)
	}
}
