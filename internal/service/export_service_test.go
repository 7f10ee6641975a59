package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

func exportFixtures() *mockCaseBaseRepo {
	return &mockCaseBaseRepo{records: map[int64]*models.CaseRecord{
		1: {
			ID:         1,
			Code:       "CASE-2026-0001",
			Kind:       models.KindCommon,
			Title:      "Tutoring follow-up",
			OccurredAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			Channel:    models.ChannelEmail,
			Comment:    "student asked for extra sessions",
			StudentID:  11,
		},
		2: {
			ID:           2,
			Code:         "CASE-2026-0002",
			Kind:         models.KindIncident,
			Title:        "Cafeteria altercation",
			OccurredAt:   time.Date(2026, 2, 2, 13, 0, 0, 0, time.UTC),
			Channel:      models.ChannelInPerson,
			Comment:      "names of everyone involved",
			Confidential: true,
			StudentID:    12,
		},
	}}
}

func TestCasesCSVRedactsConfidentialComments(t *testing.T) {
	svc := NewExportService(exportFixtures(), 100, zap.NewNop())

	payload, err := svc.CasesCSV(context.Background(), 0)
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "student asked for extra sessions")
	assert.Contains(t, body, "[redacted]")
	assert.NotContains(t, body, "names of everyone involved")
}

func TestCasesCSVFiltersByStudent(t *testing.T) {
	svc := NewExportService(exportFixtures(), 100, zap.NewNop())

	payload, err := svc.CasesCSV(context.Background(), 11)
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "CASE-2026-0001")
	assert.NotContains(t, body, "CASE-2026-0002")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(body), "\n")+1, "header plus one data row")
}

func TestCasesCSVEnforcesRowLimit(t *testing.T) {
	svc := NewExportService(exportFixtures(), 1, zap.NewNop())

	_, err := svc.CasesCSV(context.Background(), 0)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "row limit")
}

func TestCasesPDFRendersDocument(t *testing.T) {
	svc := NewExportService(exportFixtures(), 100, zap.NewNop())

	payload, err := svc.CasesPDF(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
