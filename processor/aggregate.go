package processor

import (
	"sort"

	"profitflow/models"
)

type volumeKey struct {
	Period     int
	Channel    string
	Category   string
	Customer   string
	ProductKey string
}

// AggregateVolume collapses raw volume rows to one row per
// (Period, Channel, Category, Customer, ProductKey) by summing units. Rows
// whose units sum to zero are kept; a slice dimension that moved nothing still
// appears downstream. Output is sorted by key so repeated runs over the same
// input produce identical tables.
func AggregateVolume(rows []models.VolumeRecord) []models.VolumeRecord {
	sums := make(map[volumeKey]float64, len(rows))
	for _, r := range rows {
		k := volumeKey{
			Period:     r.Period,
			Channel:    r.Channel,
			Category:   r.Category,
			Customer:   r.Customer,
			ProductKey: NormalizeKey(r.ProductKey),
		}
		sums[k] += r.Units
	}

	out := make([]models.VolumeRecord, 0, len(sums))
	for k, units := range sums {
		out = append(out, models.VolumeRecord{
			Period:     k.Period,
			Channel:    k.Channel,
			Category:   k.Category,
			Customer:   k.Customer,
			ProductKey: k.ProductKey,
			Units:      units,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Customer != b.Customer {
			return a.Customer < b.Customer
		}
		return a.ProductKey < b.ProductKey
	})

	return out
}
