package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"profitflow/models"
)

// ledgerHeader is the contract with downstream consumers of the flat file;
// column order must not change.
var ledgerHeader = []string{"Period", "Channel", "Customer", "Category", "ProductKey", "AccountCode", "Account", "Value"}

var masterHeader = []string{
	"Period", "Channel", "Category", "Customer", "ProductKey", "Units",
	"ListPrice", "StdCost", "GtgPct",
	"GrossSales", "OffInvoice", "NetTradeSales", "TradeSpendValue",
	"NetTotalSales", "COGS", "GrossProfit", "GPMarginPct",
}

var pvmHeader = []string{"Category", "PriceEffect", "VolumeEffect", "MixEffect", "TotalDelta"}

func writeCSV(path string, header []string, rows [][]string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (e *Exporter) currency(v float64) string {
	return strconv.FormatFloat(v, 'f', e.config.Writer.CurrencyPrecision, 64)
}

func units(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteLedgerCSV writes the exploded accounting lines as the flat delimited
// file consumed by reporting tools.
func (e *Exporter) WriteLedgerCSV(path string, lines []models.LedgerLine) (int64, error) {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			strconv.Itoa(l.Period),
			l.Channel,
			l.Customer,
			l.Category,
			l.ProductKey,
			l.AccountCode,
			l.AccountName,
			e.currency(l.Value),
		})
	}
	return writeCSV(path, ledgerHeader, rows)
}

// WriteMasterCSV writes one row per aggregated dimensional slice with every
// derived waterfall field.
func (e *Exporter) WriteMasterCSV(path string, master []models.MasterRow) (int64, error) {
	rows := make([][]string, 0, len(master))
	for _, m := range master {
		rows = append(rows, []string{
			strconv.Itoa(m.Period),
			m.Channel,
			m.Category,
			m.Customer,
			m.ProductKey,
			units(m.Units),
			e.currency(m.ListPrice),
			e.currency(m.StdCost),
			strconv.FormatFloat(m.GtgPct, 'f', 4, 64),
			e.currency(m.GrossSales),
			e.currency(m.OffInvoice),
			e.currency(m.NetTradeSales),
			e.currency(m.TradeSpendValue),
			e.currency(m.NetTotalSales),
			e.currency(m.COGS),
			e.currency(m.GrossProfit),
			e.currency(m.GPMarginPct),
		})
	}
	return writeCSV(path, masterHeader, rows)
}

// WritePVMCSV writes the per-category price/volume/mix bridge.
func (e *Exporter) WritePVMCSV(path string, pvm []models.PVMResult) (int64, error) {
	rows := make([][]string, 0, len(pvm))
	for _, p := range pvm {
		rows = append(rows, []string{
			p.Category,
			e.currency(p.PriceEffect),
			e.currency(p.VolumeEffect),
			e.currency(p.MixEffect),
			e.currency(p.TotalDelta),
		})
	}
	return writeCSV(path, pvmHeader, rows)
}
