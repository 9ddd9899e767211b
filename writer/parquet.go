package writer

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"profitflow/models"
)

// MasterParquetRecord mirrors a master row in the columnar export.
type MasterParquetRecord struct {
	Period          int32   `parquet:"name=period, type=INT32"`
	Channel         string  `parquet:"name=channel, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category        string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Customer        string  `parquet:"name=customer, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductKey      string  `parquet:"name=product_key, type=BYTE_ARRAY, convertedtype=UTF8"`
	Units           float64 `parquet:"name=units, type=DOUBLE"`
	ListPrice       float64 `parquet:"name=list_price, type=DOUBLE"`
	StdCost         float64 `parquet:"name=std_cost, type=DOUBLE"`
	GtgPct          float64 `parquet:"name=gtg_pct, type=DOUBLE"`
	GrossSales      float64 `parquet:"name=gross_sales, type=DOUBLE"`
	OffInvoice      float64 `parquet:"name=off_invoice, type=DOUBLE"`
	NetTradeSales   float64 `parquet:"name=net_trade_sales, type=DOUBLE"`
	TradeSpendValue float64 `parquet:"name=trade_spend_value, type=DOUBLE"`
	NetTotalSales   float64 `parquet:"name=net_total_sales, type=DOUBLE"`
	COGS            float64 `parquet:"name=cogs, type=DOUBLE"`
	GrossProfit     float64 `parquet:"name=gross_profit, type=DOUBLE"`
}

// LedgerParquetRecord mirrors one exploded accounting line.
type LedgerParquetRecord struct {
	Period      int32   `parquet:"name=period, type=INT32"`
	Channel     string  `parquet:"name=channel, type=BYTE_ARRAY, convertedtype=UTF8"`
	Customer    string  `parquet:"name=customer, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category    string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductKey  string  `parquet:"name=product_key, type=BYTE_ARRAY, convertedtype=UTF8"`
	AccountCode string  `parquet:"name=account_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	AccountName string  `parquet:"name=account, type=BYTE_ARRAY, convertedtype=UTF8"`
	Value       float64 `parquet:"name=value, type=DOUBLE"`
}

func (e *Exporter) compressionCodec() parquet.CompressionCodec {
	switch e.config.Writer.Formats.Parquet.Compression {
	case "snappy":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	case "lzo":
		return parquet.CompressionCodec_LZO
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

func (e *Exporter) createParquet(sample interface{}, write func(pw *writer.ParquetWriter) error) ([]byte, error) {
	fw := buffer.NewBufferFile()

	pw, err := writer.NewParquetWriter(fw, sample, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = e.compressionCodec()

	if err := write(pw); err != nil {
		pw.WriteStop()
		return nil, err
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}
	return fw.Bytes(), nil
}

// MasterParquet renders master rows as an in-memory parquet file.
func (e *Exporter) MasterParquet(master []models.MasterRow) ([]byte, error) {
	return e.createParquet(new(MasterParquetRecord), func(pw *writer.ParquetWriter) error {
		for _, m := range master {
			rec := MasterParquetRecord{
				Period:          int32(m.Period),
				Channel:         m.Channel,
				Category:        m.Category,
				Customer:        m.Customer,
				ProductKey:      m.ProductKey,
				Units:           m.Units,
				ListPrice:       m.ListPrice,
				StdCost:         m.StdCost,
				GtgPct:          m.GtgPct,
				GrossSales:      m.GrossSales,
				OffInvoice:      m.OffInvoice,
				NetTradeSales:   m.NetTradeSales,
				TradeSpendValue: m.TradeSpendValue,
				NetTotalSales:   m.NetTotalSales,
				COGS:            m.COGS,
				GrossProfit:     m.GrossProfit,
			}
			if err := pw.Write(rec); err != nil {
				return fmt.Errorf("failed to write parquet record: %w", err)
			}
		}
		return nil
	})
}

// LedgerParquet renders ledger lines as an in-memory parquet file.
func (e *Exporter) LedgerParquet(lines []models.LedgerLine) ([]byte, error) {
	return e.createParquet(new(LedgerParquetRecord), func(pw *writer.ParquetWriter) error {
		for _, l := range lines {
			rec := LedgerParquetRecord{
				Period:      int32(l.Period),
				Channel:     l.Channel,
				Customer:    l.Customer,
				Category:    l.Category,
				ProductKey:  l.ProductKey,
				AccountCode: l.AccountCode,
				AccountName: l.AccountName,
				Value:       l.Value,
			}
			if err := pw.Write(rec); err != nil {
				return fmt.Errorf("failed to write parquet record: %w", err)
			}
		}
		return nil
	})
}
