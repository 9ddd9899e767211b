package reader

import (
	"fmt"

	"profitflow/logger"
	"profitflow/models"
	"profitflow/processor"
)

const pricingTable = "pricing"

var pricingColumns = []string{"Period", "Channel", "ProductKey", "ListPrice", "StdCost", "GtgPct"}

// LoadPricing reads the list-price / standard-cost table. GtgPct arrives as a
// percent-formatted string ("5%" or "5") and is stored as a fraction.
func LoadPricing(path string) ([]models.PriceRecord, error) {
	t, err := loadTable(path, pricingTable, pricingColumns)
	if err != nil {
		return nil, err
	}

	records := make([]models.PriceRecord, 0, len(t.rows))
	for i, row := range t.rows {
		period, err := t.period(row, "Period")
		if err != nil {
			return nil, fmt.Errorf("pricing row %d: %w", i+2, err)
		}
		listPrice, err := t.numeric(row, "ListPrice")
		if err != nil {
			return nil, fmt.Errorf("pricing row %d: %w", i+2, err)
		}
		stdCost, err := t.numeric(row, "StdCost")
		if err != nil {
			return nil, fmt.Errorf("pricing row %d: %w", i+2, err)
		}
		gtg, err := t.numeric(row, "GtgPct")
		if err != nil {
			return nil, fmt.Errorf("pricing row %d: %w", i+2, err)
		}
		records = append(records, models.PriceRecord{
			Period:     period,
			Channel:    t.get(row, "Channel"),
			ProductKey: processor.NormalizeKey(t.get(row, "ProductKey")),
			ListPrice:  listPrice,
			StdCost:    stdCost,
			GtgPct:     gtg / 100,
		})
	}

	logger.LogDataFlowEntry(logger.GetLogger().WithComponent("reader"), "reader", "engine", len(records), "price_records")
	return records, nil
}
