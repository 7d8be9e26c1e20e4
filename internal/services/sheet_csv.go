package services

import (
	"strings"

	"github.com/example/hienmauto/internal/models"
)

// ParseOrdersCSV parses the published sheet export. Line 1 is the header and
// is skipped. Blank physical lines are skipped without breaking row-index
// alignment: rowIndex is always the physical line number + 1, so it matches
// the real spreadsheet even when the export contains empty lines.
func ParseOrdersCSV(text string, codec *SheetCodec) []models.Order {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil
	}

	orders := make([]models.Order, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(strings.TrimSuffix(lines[i], "\r"))
		if line == "" {
			continue
		}

		cells := parseCSVLine(line)
		if order, ok := codec.DecodeRow(cells, i+1); ok {
			orders = append(orders, order)
		}
	}

	return orders
}

// parseCSVLine splits one CSV line with standard quoting: fields may be
// wrapped in double quotes, an embedded quote is escaped by doubling, and
// commas inside quotes do not split. Fields are whitespace-trimmed after
// unquoting.
func parseCSVLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case ch == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
