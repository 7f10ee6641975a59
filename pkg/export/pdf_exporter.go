package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// columnWeights widens the free-text columns so titles and comments stay
// legible; the narrow flag and channel columns give up the space.
var columnWeights = []float64{1.2, 0.9, 1.6, 1.2, 1.0, 1.3, 0.9, 0.9, 2.0}

// PDFExporter renders the case register into a tabular PDF with a title
// banner and generation timestamp.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the register PDF.
func (e *PDFExporter) Render(reg Register) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if reg.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(reg.Title), "", 1, "C", false, 0, "")
	}
	generated := reg.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := e.columnWidths(pdf)
	pdf.SetFont("Arial", "B", 10)
	for i, column := range registerColumns {
		pdf.CellFormat(widths[i], 8, column, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range reg.Rows {
		for i, value := range row.values() {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(pdf *gofpdf.Fpdf) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	total := 0.0
	for _, w := range columnWeights {
		total += w
	}
	widths := make([]float64, len(columnWeights))
	for i, w := range columnWeights {
		widths[i] = usable * w / total
	}
	return widths
}
