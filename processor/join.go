package processor

import (
	"profitflow/models"
)

type priceKey struct {
	Period     int
	Channel    string
	ProductKey string
}

type spendKey struct {
	Period   int
	Channel  string
	Category string
}

// buildPriceIndex keys price records on (Period, Channel, ProductKey) with the
// product key normalized the same way volume keys are. A duplicate key keeps
// the last record, matching a plain left join against a deduplicated table.
func buildPriceIndex(rows []models.PriceRecord) map[priceKey]models.PriceRecord {
	idx := make(map[priceKey]models.PriceRecord, len(rows))
	for _, r := range rows {
		r.ProductKey = NormalizeKey(r.ProductKey)
		idx[priceKey{Period: r.Period, Channel: r.Channel, ProductKey: r.ProductKey}] = r
	}
	return idx
}

// PivotTradeSpend reshapes per-rule trade-spend rows into one percentage per
// (Period, Channel, Category, Type), summing rules that share a type. The
// pivot is a view over the same rule data the ledger explosion consumes, so
// the coarse per-type aggregate and the fine per-rule lines cannot drift
// apart.
func PivotTradeSpend(rules []models.TradeSpendRule) map[spendKey]map[string]float64 {
	pivot := make(map[spendKey]map[string]float64)
	for _, r := range rules {
		k := spendKey{Period: r.Period, Channel: r.Channel, Category: r.Category}
		byType, ok := pivot[k]
		if !ok {
			byType = make(map[string]float64)
			pivot[k] = byType
		}
		byType[r.Type] += r.Percentage
	}
	return pivot
}

// JoinMaster left-joins aggregated volume rows against the price index and the
// trade-spend pivot. Every unmatched numeric field is filled with zero, never
// nil and never an error, so downstream arithmetic is always defined. The
// returned stats count the zero-filled rows for diagnostics.
func JoinMaster(volume []models.VolumeRecord, prices map[priceKey]models.PriceRecord, pivot map[spendKey]map[string]float64, spendTypes []string) ([]models.MasterRow, models.JoinStats) {
	var stats models.JoinStats

	rows := make([]models.MasterRow, 0, len(volume))
	for _, v := range volume {
		row := models.MasterRow{
			Period:     v.Period,
			Channel:    v.Channel,
			Category:   v.Category,
			Customer:   v.Customer,
			ProductKey: v.ProductKey,
			Units:      v.Units,
			SpendPct:   make(map[string]float64, len(spendTypes)),
			SpendValue: make(map[string]float64, len(spendTypes)),
		}

		if p, ok := prices[priceKey{Period: v.Period, Channel: v.Channel, ProductKey: v.ProductKey}]; ok {
			row.ListPrice = p.ListPrice
			row.StdCost = p.StdCost
			row.GtgPct = p.GtgPct
		} else {
			stats.UnmatchedPrice++
		}

		byType, matched := pivot[spendKey{Period: v.Period, Channel: v.Channel, Category: v.Category}]
		if !matched {
			stats.UnmatchedSpend++
		}
		for _, t := range spendTypes {
			row.SpendPct[t] = byType[t]
		}

		rows = append(rows, row)
	}

	return rows, stats
}
