package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

type mockCaseBaseRepo struct {
	records  map[int64]*models.CaseRecord
	comments map[int64]string
	deleted  []int64
}

func (m *mockCaseBaseRepo) FindByID(ctx context.Context, id int64) (*models.CaseRecord, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
	}
	return record, nil
}

func (m *mockCaseBaseRepo) FindByCode(ctx context.Context, code string) (*models.CaseRecord, error) {
	for _, record := range m.records {
		if record.Code == code {
			return record, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
}

func (m *mockCaseBaseRepo) FindAll(ctx context.Context) ([]models.CaseRecord, error) {
	var records []models.CaseRecord
	for _, record := range m.records {
		records = append(records, *record)
	}
	return records, nil
}

func (m *mockCaseBaseRepo) FindByStudent(ctx context.Context, studentID int64) ([]models.CaseRecord, error) {
	var records []models.CaseRecord
	for _, record := range m.records {
		if record.StudentID == studentID {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (m *mockCaseBaseRepo) FindByCategory(ctx context.Context, categoryID int64) ([]models.CaseRecord, error) {
	return nil, nil
}

func (m *mockCaseBaseRepo) UpdateComment(ctx context.Context, id int64, comment string) error {
	if m.comments == nil {
		m.comments = make(map[int64]string)
	}
	m.comments[id] = comment
	return nil
}

func (m *mockCaseBaseRepo) SetCalendarEventID(ctx context.Context, id int64, eventID *string) error {
	return nil
}

func (m *mockCaseBaseRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.records, id)
	return nil
}

type mockCommonCaseRepo struct {
	cases  map[int64]*models.CommonCase
	nextID int64
}

func (m *mockCommonCaseRepo) Create(ctx context.Context, commonCase *models.CommonCase) error {
	m.nextID++
	commonCase.ID = m.nextID
	if m.cases == nil {
		m.cases = make(map[int64]*models.CommonCase)
	}
	m.cases[commonCase.ID] = commonCase
	return nil
}

func (m *mockCommonCaseRepo) FindByID(ctx context.Context, id int64) (*models.CommonCase, error) {
	commonCase, ok := m.cases[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "common case not found")
	}
	return commonCase, nil
}

func (m *mockCommonCaseRepo) FindAll(ctx context.Context) ([]models.CommonCase, error) {
	return nil, nil
}

func (m *mockCommonCaseRepo) FindByStudent(ctx context.Context, studentID int64) ([]models.CommonCase, error) {
	return nil, nil
}

func (m *mockCommonCaseRepo) Update(ctx context.Context, commonCase *models.CommonCase) error {
	m.cases[commonCase.ID] = commonCase
	return nil
}

type mockIncidentRepo struct {
	incidents map[int64]*models.Incident
	nextID    int64
}

func (m *mockIncidentRepo) Create(ctx context.Context, incident *models.Incident) error {
	m.nextID++
	incident.ID = m.nextID
	if m.incidents == nil {
		m.incidents = make(map[int64]*models.Incident)
	}
	m.incidents[incident.ID] = incident
	return nil
}

func (m *mockIncidentRepo) FindByID(ctx context.Context, id int64) (*models.Incident, error) {
	incident, ok := m.incidents[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "incident not found")
	}
	return incident, nil
}

func (m *mockIncidentRepo) FindAll(ctx context.Context) ([]models.Incident, error) {
	return nil, nil
}

func (m *mockIncidentRepo) FindByStudent(ctx context.Context, studentID int64) ([]models.Incident, error) {
	return nil, nil
}

func (m *mockIncidentRepo) FindByReporter(ctx context.Context, reporterID int64) ([]models.Incident, error) {
	var incidents []models.Incident
	for _, incident := range m.incidents {
		if incident.ReporterID == reporterID {
			incidents = append(incidents, *incident)
		}
	}
	return incidents, nil
}

func (m *mockIncidentRepo) Update(ctx context.Context, incident *models.Incident) error {
	m.incidents[incident.ID] = incident
	return nil
}

func newCaseServiceForTest(base *mockCaseBaseRepo, common *mockCommonCaseRepo, incidents *mockIncidentRepo) *CaseService {
	return NewCaseService(base, common, incidents, nil, validator.New(), zap.NewNop(), CaseServiceConfig{})
}

func commonCaseRequest() models.CreateCommonCaseRequest {
	return models.CreateCommonCaseRequest{
		Title:      "Missed three tutoring sessions",
		OccurredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Channel:    models.ChannelEmail,
		Comment:    "student reached out by email",
		CategoryID: 2,
		StudentID:  11,
		Motivation: "attendance follow-up",
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, &mockCommonCaseRepo{}, &mockIncidentRepo{})

	pattern := regexp.MustCompile(`^CASE-\d{4}-\d{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, svc.GenerateCode())
	}
}

func TestCreateCommonCaseDefaultsNonConfidential(t *testing.T) {
	common := &mockCommonCaseRepo{}
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, common, &mockIncidentRepo{})

	created, err := svc.CreateCommonCase(context.Background(), commonCaseRequest(), 42)
	require.NoError(t, err)
	assert.False(t, created.Confidential)
	assert.Equal(t, int64(42), created.CreatorID)
	assert.NotEmpty(t, created.Code)
	assert.Equal(t, "attendance follow-up", created.Motivation)
}

func TestCreateIncidentForcesConfidential(t *testing.T) {
	incidents := &mockIncidentRepo{}
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, &mockCommonCaseRepo{}, incidents)

	created, err := svc.CreateIncident(context.Background(), models.CreateIncidentRequest{
		Title:           "Altercation in the cafeteria",
		OccurredAt:      time.Date(2026, 3, 12, 13, 30, 0, 0, time.UTC),
		Channel:         models.ChannelInPerson,
		CategoryID:      4,
		StudentID:       11,
		Location:        "cafeteria",
		InvolvedParties: []string{"student A", "student B"},
		ReporterID:      9,
	}, 42)
	require.NoError(t, err)
	assert.True(t, created.Confidential)
	assert.Equal(t, int64(9), created.ReporterID)
}

func TestListIncidentsByReporterFilters(t *testing.T) {
	incidents := &mockIncidentRepo{}
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, &mockCommonCaseRepo{}, incidents)

	for _, reporterID := range []int64{9, 9, 12} {
		_, err := svc.CreateIncident(context.Background(), models.CreateIncidentRequest{
			Title:      "Altercation in the cafeteria",
			OccurredAt: time.Date(2026, 3, 12, 13, 30, 0, 0, time.UTC),
			Channel:    models.ChannelInPerson,
			CategoryID: 4,
			StudentID:  11,
			Location:   "cafeteria",
			ReporterID: reporterID,
		}, 42)
		require.NoError(t, err)
	}

	filed, err := svc.ListIncidentsByReporter(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, filed, 2)
	for _, incident := range filed {
		assert.Equal(t, int64(9), incident.ReporterID)
	}
}

func TestCreateCommonCaseRejectsMissingMotivation(t *testing.T) {
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, &mockCommonCaseRepo{}, &mockIncidentRepo{})

	req := commonCaseRequest()
	req.Motivation = ""
	_, err := svc.CreateCommonCase(context.Background(), req, 42)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCloneCommonCaseAssignsFreshCode(t *testing.T) {
	common := &mockCommonCaseRepo{}
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, common, &mockIncidentRepo{})

	original, err := svc.CreateCommonCase(context.Background(), commonCaseRequest(), 42)
	require.NoError(t, err)

	clone, err := svc.CloneCommonCase(context.Background(), original.ID, 43)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, clone.ID)
	assert.NotEqual(t, original.Code, clone.Code)
	assert.Equal(t, original.Title, clone.Title)
	assert.Equal(t, original.Motivation, clone.Motivation)
	assert.Equal(t, int64(43), clone.CreatorID)
	assert.Empty(t, clone.Comment)
	assert.Nil(t, clone.CalendarEventID)
}

func TestUpdateCommentRequiresExistingCase(t *testing.T) {
	base := &mockCaseBaseRepo{records: map[int64]*models.CaseRecord{}}
	svc := newCaseServiceForTest(base, &mockCommonCaseRepo{}, &mockIncidentRepo{})

	err := svc.UpdateComment(context.Background(), 99, models.UpdateCaseCommentRequest{Comment: "follow-up done"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUpdateCommentPersists(t *testing.T) {
	base := &mockCaseBaseRepo{records: map[int64]*models.CaseRecord{
		5: {ID: 5, Code: "CASE-2026-0042", Kind: models.KindCommon},
	}}
	svc := newCaseServiceForTest(base, &mockCommonCaseRepo{}, &mockIncidentRepo{})

	err := svc.UpdateComment(context.Background(), 5, models.UpdateCaseCommentRequest{Comment: "follow-up done"})
	require.NoError(t, err)
	assert.Equal(t, "follow-up done", base.comments[5])
}

func TestUpdateCommonCaseKeepsCodeAndCreator(t *testing.T) {
	common := &mockCommonCaseRepo{}
	svc := newCaseServiceForTest(&mockCaseBaseRepo{}, common, &mockIncidentRepo{})

	original, err := svc.CreateCommonCase(context.Background(), commonCaseRequest(), 42)
	require.NoError(t, err)

	updated, err := svc.UpdateCommonCase(context.Background(), original.ID, models.UpdateCommonCaseRequest{
		Title:      "Missed four tutoring sessions",
		OccurredAt: original.OccurredAt,
		Channel:    models.ChannelPhone,
		CategoryID: 3,
		StudentID:  11,
		Motivation: "escalated follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, "Missed four tutoring sessions", updated.Title)
	assert.Equal(t, original.Code, updated.Code)
	assert.Equal(t, int64(42), updated.CreatorID)
	assert.Equal(t, "escalated follow-up", updated.Motivation)
}

func TestDeleteCaseRemovesRecord(t *testing.T) {
	base := &mockCaseBaseRepo{records: map[int64]*models.CaseRecord{
		5: {ID: 5, Code: "CASE-2026-0042", Kind: models.KindCommon},
	}}
	svc := newCaseServiceForTest(base, &mockCommonCaseRepo{}, &mockIncidentRepo{})

	require.NoError(t, svc.DeleteCase(context.Background(), 5))
	assert.Equal(t, []int64{5}, base.deleted)
}
