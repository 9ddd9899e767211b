package processor

import (
	"profitflow/models"
)

// ComputeWaterfall fills in the derived P&L fields of each master row, in
// dependency order:
//
//	GrossSales    = Units x ListPrice
//	OffInvoice    = GrossSales x GtgPct
//	NetTradeSales = GrossSales - OffInvoice
//	SpendValue[t] = GrossSales x SpendPct[t]      for each spend type
//	TradeSpend    = sum of SpendValue
//	NetTotalSales = NetTradeSales - TradeSpend
//	COGS          = Units x StdCost
//	GrossProfit   = NetTotalSales - COGS
//
// GP margin is GrossProfit / NetTotalSales x 100, reported as 0 when net
// total sales is zero.
func ComputeWaterfall(rows []models.MasterRow, spendTypes []string) []models.MasterRow {
	for i := range rows {
		r := &rows[i]

		r.GrossSales = r.Units * r.ListPrice
		r.OffInvoice = r.GrossSales * r.GtgPct
		r.NetTradeSales = r.GrossSales - r.OffInvoice

		r.TradeSpendValue = 0
		for _, t := range spendTypes {
			v := r.GrossSales * r.SpendPct[t]
			r.SpendValue[t] = v
			r.TradeSpendValue += v
		}

		r.NetTotalSales = r.NetTradeSales - r.TradeSpendValue
		r.COGS = r.Units * r.StdCost
		r.GrossProfit = r.NetTotalSales - r.COGS

		if r.NetTotalSales != 0 {
			r.GPMarginPct = r.GrossProfit / r.NetTotalSales * 100
		} else {
			r.GPMarginPct = 0
		}
	}
	return rows
}
