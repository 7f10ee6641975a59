package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders the case register as CSV. Title and timestamp are
// not part of CSV output, only the table itself.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the register.
func (e *CSVExporter) Render(reg Register) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(registerColumns); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range reg.Rows {
		if err := writer.Write(row.values()); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
