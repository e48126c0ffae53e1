// Package sheet reads spreadsheet input files into ordered raw rows
// using excelize. It owns the kind-specific column-to-field mapping;
// everything downstream of the parser works on canonical field keys.
package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"research-hub/internal/domain/entity"
	"research-hub/internal/usecase/ingest"
)

// Parser reads the first sheet of an xlsx file. HeaderRow is the
// 1-based row holding the column headers; data begins on the next row.
type Parser struct {
	HeaderRow int
}

// NewParser returns a parser with the default single header row.
func NewParser() *Parser {
	return &Parser{HeaderRow: 1}
}

// Read parses the file into ordered raw rows for the given kind. An
// unreadable or non-tabular file, or a missing required column, is a
// structural error: the whole run aborts before any persistence begins.
// Rows whose cells are all blank are dropped but still counted, so the
// reported indexes keep matching the spreadsheet rows the user sees.
func (p *Parser) Read(ctx context.Context, path string, kind entity.ContentKind) ([]ingest.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("no sheet schema for content kind %q", kind)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) < p.HeaderRow {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	fieldByColumn, err := mapColumns(cells[p.HeaderRow-1], schema)
	if err != nil {
		return nil, err
	}

	rows := make([]ingest.RawRow, 0, len(cells)-p.HeaderRow)
	for i, line := range cells[p.HeaderRow:] {
		fields := make(map[string]string, len(fieldByColumn))
		empty := true
		for col, field := range fieldByColumn {
			var value string
			if col < len(line) {
				value = strings.TrimSpace(line[col])
			}
			if value != "" {
				empty = false
			}
			fields[field] = value
		}
		if empty {
			continue
		}
		rows = append(rows, ingest.RawRow{Index: i + 1, Fields: fields})
	}

	return rows, nil
}

// mapColumns resolves the header line to a column-index-to-field map and
// verifies that every required column is present.
func mapColumns(header []string, schema kindSchema) (map[int]string, error) {
	fieldByColumn := make(map[int]string)
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if field, ok := schema.Columns[name]; ok {
			fieldByColumn[i] = field
			seen[name] = true
		}
	}

	var missing []string
	for _, name := range schema.Required {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return fieldByColumn, nil
}
