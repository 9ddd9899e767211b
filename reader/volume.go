package reader

import (
	"fmt"

	"profitflow/logger"
	"profitflow/models"
	"profitflow/processor"
)

const volumeTable = "volume"

var volumeColumns = []string{"Period", "Channel", "Category", "Customer", "ProductKey", "Units"}

// LoadVolume reads the unit-volume table. Product keys are normalized at load
// so later joins see the same canonical key the pricing loader produces.
func LoadVolume(path string) ([]models.VolumeRecord, error) {
	t, err := loadTable(path, volumeTable, volumeColumns)
	if err != nil {
		return nil, err
	}

	records := make([]models.VolumeRecord, 0, len(t.rows))
	for i, row := range t.rows {
		period, err := t.period(row, "Period")
		if err != nil {
			return nil, fmt.Errorf("volume row %d: %w", i+2, err)
		}
		units, err := t.numeric(row, "Units")
		if err != nil {
			return nil, fmt.Errorf("volume row %d: %w", i+2, err)
		}
		records = append(records, models.VolumeRecord{
			Period:     period,
			Channel:    t.get(row, "Channel"),
			Category:   t.get(row, "Category"),
			Customer:   t.get(row, "Customer"),
			ProductKey: processor.NormalizeKey(t.get(row, "ProductKey")),
			Units:      units,
		})
	}

	logger.LogDataFlowEntry(logger.GetLogger().WithComponent("reader"), "reader", "engine", len(records), "volume_records")
	return records, nil
}
