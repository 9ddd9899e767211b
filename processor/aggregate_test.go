package processor

import (
	"testing"

	"profitflow/models"
)

func volumeRow(period int, customer, product string, units float64) models.VolumeRecord {
	return models.VolumeRecord{
		Period:     period,
		Channel:    "Retail",
		Category:   "Snacks",
		Customer:   customer,
		ProductKey: product,
		Units:      units,
	}
}

func TestAggregateVolumeSumsDuplicateKeys(t *testing.T) {
	rows := []models.VolumeRecord{
		volumeRow(2024, "Acme", "123", 5),
		volumeRow(2024, "Acme", "123.0", 7),
		volumeRow(2024, "Bolt", "123", 3),
	}

	out := AggregateVolume(rows)
	if len(out) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(out))
	}
	if out[0].Customer != "Acme" || out[0].Units != 12 {
		t.Errorf("expected Acme units 12, got %+v", out[0])
	}
	if out[1].Customer != "Bolt" || out[1].Units != 3 {
		t.Errorf("expected Bolt units 3, got %+v", out[1])
	}
}

func TestAggregateVolumeKeepsZeroSum(t *testing.T) {
	rows := []models.VolumeRecord{
		volumeRow(2024, "Acme", "123", 4),
		volumeRow(2024, "Acme", "123", -4),
	}

	out := AggregateVolume(rows)
	if len(out) != 1 {
		t.Fatalf("expected zero-sum row to survive, got %d rows", len(out))
	}
	if out[0].Units != 0 {
		t.Errorf("expected units 0, got %v", out[0].Units)
	}
}

func TestAggregateVolumeDeterministicOrder(t *testing.T) {
	rows := []models.VolumeRecord{
		volumeRow(2025, "Acme", "2", 1),
		volumeRow(2024, "Bolt", "1", 1),
		volumeRow(2024, "Acme", "1", 1),
	}

	out := AggregateVolume(rows)
	if out[0].Period != 2024 || out[0].Customer != "Acme" {
		t.Errorf("unexpected first row: %+v", out[0])
	}
	if out[2].Period != 2025 {
		t.Errorf("expected 2025 row last, got %+v", out[2])
	}
}
