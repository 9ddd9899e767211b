package reader

import (
	"fmt"

	"profitflow/logger"
	"profitflow/models"
)

const tradeSpendTable = "trade_spend"

var tradeSpendColumns = []string{"Period", "Channel", "Category", "Type", "AccountCode", "AccountName", "Percentage"}

// LoadTradeSpend reads the trade-spend policy table. Percentage arrives as a
// percent-formatted string and is stored as a fraction. Type membership in the
// configured set is validated by the engine, not here, so the loader stays
// config-free.
func LoadTradeSpend(path string) ([]models.TradeSpendRule, error) {
	t, err := loadTable(path, tradeSpendTable, tradeSpendColumns)
	if err != nil {
		return nil, err
	}

	rules := make([]models.TradeSpendRule, 0, len(t.rows))
	for i, row := range t.rows {
		period, err := t.period(row, "Period")
		if err != nil {
			return nil, fmt.Errorf("trade_spend row %d: %w", i+2, err)
		}
		pct, err := t.numeric(row, "Percentage")
		if err != nil {
			return nil, fmt.Errorf("trade_spend row %d: %w", i+2, err)
		}
		rules = append(rules, models.TradeSpendRule{
			Period:      period,
			Channel:     t.get(row, "Channel"),
			Category:    t.get(row, "Category"),
			Type:        t.get(row, "Type"),
			AccountCode: t.get(row, "AccountCode"),
			AccountName: t.get(row, "AccountName"),
			Percentage:  pct / 100,
		})
	}

	logger.LogDataFlowEntry(logger.GetLogger().WithComponent("reader"), "reader", "engine", len(rules), "trade_spend_rules")
	return rules, nil
}
