package processor

import (
	"sort"

	"profitflow/models"
)

type categoryTotals struct {
	Units float64
	NTS   float64
}

// BuildBridge decomposes the change in net total sales between two
// fully-waterfalled row sets into price, volume and mix effects per category.
//
// The decomposition is anchored deliberately: the previous-period unit price
// p1 carries both the volume and mix effects, while the price effect is
// weighted by current-period volume v2. That keeps the three effects additive:
// PriceEffect + VolumeEffect + MixEffect = TotalDelta for every category.
func BuildBridge(current, previous []models.MasterRow) []models.PVMResult {
	cur := totalsByCategory(current)
	prev := totalsByCategory(previous)

	categories := make([]string, 0, len(cur)+len(prev))
	seen := make(map[string]struct{}, len(cur)+len(prev))
	for c := range cur {
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	for c := range prev {
		if _, ok := seen[c]; !ok {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)

	var grandV1, grandV2 float64
	for _, t := range prev {
		grandV1 += t.Units
	}
	for _, t := range cur {
		grandV2 += t.Units
	}

	results := make([]models.PVMResult, 0, len(categories))
	for _, c := range categories {
		v1, v2 := prev[c].Units, cur[c].Units

		p1 := 0.0
		if v1 > 0 {
			p1 = prev[c].NTS / v1
		}
		p2 := 0.0
		if v2 > 0 {
			p2 = cur[c].NTS / v2
		}

		mix1 := 0.0
		if grandV1 > 0 {
			mix1 = v1 / grandV1
		}
		mix2 := 0.0
		if grandV2 > 0 {
			mix2 = v2 / grandV2
		}

		results = append(results, models.PVMResult{
			Category:     c,
			PriceEffect:  v2 * (p2 - p1),
			VolumeEffect: (grandV2 - grandV1) * mix1 * p1,
			MixEffect:    grandV2 * (mix2 - mix1) * p1,
			TotalDelta:   v2*p2 - v1*p1,
		})
	}

	return results
}

func totalsByCategory(rows []models.MasterRow) map[string]categoryTotals {
	totals := make(map[string]categoryTotals)
	for _, r := range rows {
		t := totals[r.Category]
		t.Units += r.Units
		t.NTS += r.NetTotalSales
		totals[r.Category] = t
	}
	return totals
}
