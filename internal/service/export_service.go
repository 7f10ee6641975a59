package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/export"
)

// ExportService renders case listings as CSV or PDF documents. Comments
// of confidential cases are redacted from exported output.
type ExportService struct {
	cases   caseBaseRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(cases caseBaseRepository, maxRows int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &ExportService{
		cases:   cases,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
		logger:  logger,
	}
}

// CasesCSV renders the case register as CSV bytes.
func (s *ExportService) CasesCSV(ctx context.Context, studentID int64) ([]byte, error) {
	register, err := s.buildRegister(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(register)
}

// CasesPDF renders the case register as a tabular PDF.
func (s *ExportService) CasesPDF(ctx context.Context, studentID int64) ([]byte, error) {
	register, err := s.buildRegister(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(register)
}

func (s *ExportService) buildRegister(ctx context.Context, studentID int64) (export.Register, error) {
	var (
		records []models.CaseRecord
		err     error
	)
	if studentID > 0 {
		records, err = s.cases.FindByStudent(ctx, studentID)
	} else {
		records, err = s.cases.FindAll(ctx)
	}
	if err != nil {
		return export.Register{}, err
	}
	if len(records) > s.maxRows {
		return export.Register{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("export exceeds the %d row limit", s.maxRows))
	}

	rows := make([]export.CaseRow, 0, len(records))
	for _, record := range records {
		row := export.CaseRow{
			Code:         record.Code,
			Kind:         string(record.Kind),
			Title:        record.Title,
			OccurredAt:   record.OccurredAt.Format(time.RFC3339),
			Channel:      string(record.Channel),
			Confidential: fmt.Sprintf("%t", record.Confidential),
			Comment:      record.Comment,
		}
		if record.Student != nil {
			row.Student = record.Student.FirstName + " " + record.Student.LastName
		}
		if record.Category != nil {
			row.Category = record.Category.Name
		}
		if record.Confidential {
			row.Comment = "[redacted]"
		}
		rows = append(rows, row)
	}

	return export.Register{
		Title:       "Case Register",
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}, nil
}
