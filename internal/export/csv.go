// Package export serializes already-computed history rows into external
// formats: CSV files and human-readable markdown documents. It is a pure
// formatting layer and holds no state of its own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVHeader is the fixed column order of history exports.
var CSVHeader = []string{"id", "account_no", "type", "amount", "counterparty", "timestamp", "note"}

// WriteCSV writes one header row followed by the given history rows.
// Rows come from the facade's ExportHistory and are written as-is.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
