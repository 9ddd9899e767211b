package processor

import (
	"math"

	"profitflow/models"
)

// Fixed accounts in the exploded ledger. Trade-spend lines carry the code and
// name of the rule that produced them instead.
const (
	AccountCodeGrossSales = "40000"
	AccountNameGrossSales = "Gross Sales"

	AccountCodeOffInvoice = "41000"
	AccountNameOffInvoice = "Off-Invoice Discounts"

	AccountCodeCOGS = "50000"
	AccountNameCOGS = "Cost of Goods Sold"
)

// ExplodeLedger expands each master row into absolute-value accounting lines
// in a fixed account sequence: gross sales, off-invoice, one line per matching
// trade-spend rule, then COGS. The gross-sales line is always emitted even at
// zero so every slice shows up in the flat file; every other account is
// emitted only when its magnitude is non-zero. Per-rule values come from the
// same rule set the pivot was built from, so ledger totals per type equal the
// waterfall's pivoted spend values.
func ExplodeLedger(rows []models.MasterRow, rules []models.TradeSpendRule) []models.LedgerLine {
	rulesByKey := make(map[spendKey][]models.TradeSpendRule, len(rules))
	for _, r := range rules {
		k := spendKey{Period: r.Period, Channel: r.Channel, Category: r.Category}
		rulesByKey[k] = append(rulesByKey[k], r)
	}

	var lines []models.LedgerLine
	emit := func(row models.MasterRow, code, name string, value float64) {
		lines = append(lines, models.LedgerLine{
			Period:      row.Period,
			Channel:     row.Channel,
			Customer:    row.Customer,
			Category:    row.Category,
			ProductKey:  row.ProductKey,
			AccountCode: code,
			AccountName: name,
			Value:       math.Abs(value),
		})
	}

	for _, row := range rows {
		emit(row, AccountCodeGrossSales, AccountNameGrossSales, row.GrossSales)

		if row.OffInvoice != 0 {
			emit(row, AccountCodeOffInvoice, AccountNameOffInvoice, row.OffInvoice)
		}

		for _, rule := range rulesByKey[spendKey{Period: row.Period, Channel: row.Channel, Category: row.Category}] {
			v := row.GrossSales * rule.Percentage
			if v != 0 {
				emit(row, rule.AccountCode, rule.AccountName, v)
			}
		}

		if row.COGS != 0 {
			emit(row, AccountCodeCOGS, AccountNameCOGS, row.COGS)
		}
	}

	return lines
}
