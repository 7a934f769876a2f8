package domain

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single dataset cell. Raw keeps the original text for non-numeric cells.
type Value struct {
	Kind   ValueKind
	Number float64
	Raw    string
}

var nullTokens = map[string]struct{}{
	"":     {},
	"-":    {},
	"null": {},
	"none": {},
	"nan":  {},
	"n/a":  {},
	"na":   {},
}

var currencySymbols = []string{"$", "₪", "€", "£", "¥"}

// ParseValue classifies a raw cell. Thousands separators, currency symbols, a trailing percent
// sign and accounting negatives like "(1,200)" are accepted as numbers.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if _, ok := nullTokens[strings.ToLower(s)]; ok {
		return Value{Kind: ValueEmpty, Raw: raw}
	}
	if n, ok := parseNumber(s); ok {
		return Value{Kind: ValueNumber, Number: n, Raw: raw}
	}
	return Value{Kind: ValueText, Raw: s}
}

func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n, Raw: strconv.FormatFloat(n, 'f', -1, 64)}
}

func (v Value) IsEmpty() bool {
	return v.Kind == ValueEmpty
}

func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

// String returns the cell as text, trimmed.
func (v Value) String() string {
	if v.Kind == ValueNumber && v.Raw == "" {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return strings.TrimSpace(v.Raw)
}

func parseNumber(s string) (float64, bool) {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

type Row map[string]Value

// Dataset is a parsed table. It is treated as read-only once loaded.
type Dataset struct {
	Source  string
	Columns []string
	Rows    []Row
}

// NewDataset builds a dataset from a header and raw string records.
func NewDataset(source string, header []string, records [][]string) *Dataset {
	ds := &Dataset{
		Source:  source,
		Columns: append([]string(nil), header...),
		Rows:    make([]Row, 0, len(records)),
	}
	for _, record := range records {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = ParseValue(record[i])
			} else {
				row[col] = Value{Kind: ValueEmpty}
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// Validate returns an InvalidDatasetError for structurally unusable input.
func (d *Dataset) Validate() error {
	if d == nil {
		return &InvalidDatasetError{Reason: "no dataset"}
	}
	if len(d.Columns) == 0 {
		return &InvalidDatasetError{Source: d.Source, Reason: "no columns"}
	}
	if len(d.Rows) == 0 {
		return &InvalidDatasetError{Source: d.Source, Reason: "no rows"}
	}
	return nil
}

// Column returns all values of one column in row order.
func (d *Dataset) Column(name string) []Value {
	values := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values
}
