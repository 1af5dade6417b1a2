// Package bulk turns tabular input into validated per-row field sets.
// Column names pass through the same synonym table as interactive input,
// so a spreadsheet header of "Candidate Name" and a prompt for
// "employee_name" land on the same canonical field.
package bulk

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-lettergen/pkg/fields"
)

// Row is one record keyed by canonical field name.
type Row map[string]string

// ColumnIssue describes a column missing from the import header.
type ColumnIssue struct {
	Field string
	Hint  string
}

func (c ColumnIssue) String() string {
	return fmt.Sprintf("missing column %q (example: %s)", fields.Label(c.Field), c.Hint)
}

// ColumnReport is the outcome of matching a header against a template's
// field set. Missing required columns reject the batch; missing optional
// columns only warn.
type ColumnReport struct {
	Missing  []ColumnIssue
	Warnings []ColumnIssue
}

// OK reports whether the batch may proceed.
func (r ColumnReport) OK() bool { return len(r.Missing) == 0 }

// RowError reports one failed value inside a batch. Row numbers are
// 1-based over the data rows, matching what a spreadsheet user sees
// below the header.
type RowError struct {
	Row     int
	Field   string
	Message string
	Hint    string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d, %s: %s (example: %s)", e.Row, fields.Label(e.Field), e.Message, e.Hint)
}

// NormalizeRow maps raw column names onto canonical field names and trims
// values. When two raw columns collapse onto one canonical name the first
// non-empty value wins.
func NormalizeRow(raw map[string]string) Row {
	out := make(Row, len(raw))
	for column, value := range raw {
		canonical := fields.Canonical(column)
		if canonical == "" {
			continue
		}
		if out[canonical] != "" {
			continue
		}
		out[canonical] = strings.TrimSpace(value)
	}
	return out
}

// CheckColumns matches the canonical header set against the template's
// required and optional fields.
func CheckColumns(columns []string, required, optional []string) ColumnReport {
	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[fields.Canonical(column)] = true
	}

	var report ColumnReport
	for _, name := range required {
		if !present[name] {
			report.Missing = append(report.Missing, ColumnIssue{Field: name, Hint: fields.Hint(name)})
		}
	}
	for _, name := range optional {
		if !present[name] {
			report.Warnings = append(report.Warnings, ColumnIssue{Field: name, Hint: fields.Hint(name)})
		}
	}
	return report
}

// ValidateRows runs the field validator over every value. A failing row
// never stops the remaining rows; callers decide what to do with the
// collected errors. Returned indexes in Valid refer into rows.
func ValidateRows(rows []Row, required []string) (valid []int, errs []RowError) {
	for i, row := range rows {
		rowOK := true
		for _, name := range required {
			value := row[name]
			if value == "" {
				rowOK = false
				errs = append(errs, RowError{
					Row:     i + 1,
					Field:   name,
					Message: fmt.Sprintf("%s is required", fields.Label(name)),
					Hint:    fields.Hint(name),
				})
				continue
			}
			if ok, message := fields.Validate(name, value); !ok {
				rowOK = false
				errs = append(errs, RowError{Row: i + 1, Field: name, Message: message, Hint: fields.Hint(name)})
			}
		}
		for name, value := range row {
			if value == "" || contains(required, name) {
				continue
			}
			if ok, message := fields.Validate(name, value); !ok {
				rowOK = false
				errs = append(errs, RowError{Row: i + 1, Field: name, Message: message, Hint: fields.Hint(name)})
			}
		}
		if rowOK {
			valid = append(valid, i)
		}
	}
	return valid, errs
}

// ParseCSV reads an import file: first record is the header, every later
// record becomes a normalized Row. The canonical header set comes back so
// callers can run CheckColumns.
func ParseCSV(r io.Reader) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("bulk: read header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, column := range header {
		if canonical := fields.Canonical(column); canonical != "" {
			columns = append(columns, canonical)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("bulk: read row %d: %w", len(rows)+1, err)
		}
		raw := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				raw[column] = record[i]
			}
		}
		rows = append(rows, NormalizeRow(raw))
	}
	return rows, columns, nil
}

// BlankCSV produces a downloadable starter file: readable labels as the
// header plus one example row so users see the expected shapes.
func BlankCSV(required, optional []string) []byte {
	names := make([]string, 0, len(required)+len(optional))
	names = append(names, required...)
	names = append(names, optional...)

	header := make([]string, len(names))
	example := make([]string, len(names))
	for i, name := range names {
		header[i] = fields.TitleLabel(name)
		example[i] = fields.Example(name)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	_ = w.Write(example)
	w.Flush()
	return buf.Bytes()
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}
