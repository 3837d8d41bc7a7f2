// Package tabular encodes and decodes collections of homogeneous records
// as delimited text: a header line naming the fields, then one line per
// record mapping positionally onto that header.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Record is an ordered mapping of field name to string value. Columns
// carries the field order; Values holds the data. All records in one
// collection share the same field set.
type Record struct {
	Columns []string
	Values  map[string]string
}

// New builds an empty record over the given columns.
func New(columns ...string) Record {
	cols := make([]string, len(columns))
	copy(cols, columns)
	values := make(map[string]string, len(columns))
	for _, c := range cols {
		values[c] = ""
	}
	return Record{Columns: cols, Values: values}
}

// Get returns the value for a field name, "" when the field is absent.
func (r Record) Get(name string) string {
	return r.Values[name]
}

// Set assigns a field value, appending the column when it is new.
func (r *Record) Set(name, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	if _, ok := r.Values[name]; !ok {
		r.Columns = append(r.Columns, name)
	}
	r.Values[name] = value
}

// Equal reports whether two records have the same columns in the same
// order and the same values.
func (r Record) Equal(o Record) bool {
	if len(r.Columns) != len(o.Columns) {
		return false
	}
	for i, c := range r.Columns {
		if o.Columns[i] != c || r.Values[c] != o.Values[c] {
			return false
		}
	}
	return true
}

// Decode parses delimited text into records. The first line is the
// header; each following line maps positionally to it. Empty input
// yields an empty sequence.
func Decode(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: decode: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := New(header...)
		for i, col := range header {
			rec.Values[col] = unescapeField(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode serializes records as delimited text, header first. The header
// is taken from the first record; callers guarantee a consistent field
// set across the sequence. An empty sequence encodes to empty output,
// which Decode accepts back as an empty sequence.
func Encode(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0].Columns
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("tabular: encode header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			row[i] = escapeField(rec.Values[col])
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("tabular: encode row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("tabular: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// csv.Reader folds "\r\n" inside quoted fields to "\n", which would
// silently rewrite CRLF values after one persist/load cycle. Carriage
// returns are backslash-escaped on the way out and restored on the way
// in so every value survives the round trip byte for byte.
func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\\r") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\r", `\r`)
}

func unescapeField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
