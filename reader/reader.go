// Package reader loads the three raw input tables from delimited files and
// hands them to the engine as typed records. It owns schema validation; value
// cleaning is delegated to the processor's normalizer so every table parses
// numerics the same way.
package reader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"profitflow/logger"
	"profitflow/processor"
)

// SchemaError reports a required column missing from an input table. It is
// fatal; no partial load is attempted.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input table %s: required column %q is missing", e.Table, e.Column)
}

// table is a parsed delimited file with a header index. Column lookups are
// case-sensitive on the trimmed header names.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func loadTable(path, name string, required []string) (*table, error) {
	log := logger.GetLogger().WithComponent("reader").WithFields(logger.Fields{
		"table": name,
		"path":  path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table: %w", name, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{Table: name, Column: required[0]}
	}

	columns := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		columns[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, &SchemaError{Table: name, Column: col}
		}
	}

	log.WithFields(logger.Fields{"rows": len(records) - 1}).Info("table loaded")
	logger.IncrementRowsRead(len(records) - 1)

	return &table{name: name, columns: columns, rows: records[1:]}, nil
}

func (t *table) get(row []string, column string) string {
	i := t.columns[column]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// numeric cleans and parses a currency/percent formatted cell.
func (t *table) numeric(row []string, column string) (float64, error) {
	return processor.CleanNumeric(t.name, column, t.get(row, column))
}

// period parses a fiscal year cell. Periods arrive as plain integers but may
// carry the same ".0" coercion artifact as product keys.
func (t *table) period(row []string, column string) (int, error) {
	raw := processor.NormalizeKey(t.get(row, column))
	p, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &processor.ParseError{Table: t.name, Field: column, Value: t.get(row, column)}
	}
	return p, nil
}
