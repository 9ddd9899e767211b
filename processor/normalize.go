package processor

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a numeric-looking field that could not be cleaned and
// parsed. It is fatal for the load of the table that produced it.
type ParseError struct {
	Table string
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s.%s: %q is not numeric", e.Table, e.Field, e.Value)
}

// CleanNumeric parses a locale-formatted numeric string such as "$1,234.50"
// or "12.5%". Currency and percent symbols, thousands separators and
// surrounding whitespace are stripped before parsing.
func CleanNumeric(table, field, raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", "%", "", ",", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Table: table, Field: field, Value: raw}
	}
	return v, nil
}

// NormalizeKey canonicalizes a raw product identifier so volume and pricing
// rows join on the same key. Surrounding whitespace is trimmed and a trailing
// ".0" left behind by numeric-to-text coercion upstream is removed. The
// function is idempotent; applying it to an already-normalized key returns
// the key unchanged.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.TrimSuffix(key, ".0")
	return key
}
