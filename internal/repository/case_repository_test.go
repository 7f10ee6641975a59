package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

func newCaseRepos(t *testing.T) (*CommonCaseRepository, *IncidentRepository, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := newMock(t)
	users := NewUserRepository(db, stubHasher{})
	roles := NewRoleRepository(db)
	students := NewStudentRepository(db, users)
	staff := NewStaffRepository(db, users, roles)
	categories := NewCategoryRepository(db)
	cases := NewCaseRepository(db, categories, students, users)
	return NewCommonCaseRepository(db, cases), NewIncidentRepository(db, cases, staff), mock, cleanup
}

func sampleCommonCase() *models.CommonCase {
	return &models.CommonCase{
		CaseRecord: models.CaseRecord{
			Title:      "Tutoring request",
			Code:       "CASE-2026-0042",
			OccurredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			Channel:    models.ChannelInPerson,
			Comment:    "walk-in",
			CategoryID: 1,
			StudentID:  11,
			CreatorID:  21,
		},
		Motivation: "struggling with first-year math",
	}
}

func TestCommonCaseCreateCommitsBothRows(t *testing.T) {
	commonRepo, _, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO cases").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectExec("INSERT INTO common_cases").
		WithArgs(int64(100), "struggling with first-year math").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	commonCase := sampleCommonCase()
	err := commonRepo.Create(context.Background(), commonCase)
	require.NoError(t, err)
	assert.Equal(t, int64(100), commonCase.ID)
	assert.Equal(t, models.KindCommon, commonCase.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommonCaseCreateRollsBackOnSpecializationFailure(t *testing.T) {
	commonRepo, _, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO cases").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectExec("INSERT INTO common_cases").
		WillReturnError(errors.New("null value in column \"motivation\""))
	mock.ExpectRollback()

	err := commonRepo.Create(context.Background(), sampleCommonCase())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// expectCaseResolution covers the relation lookups performed after the base
// row loads; empty result sets leave the resolved fields nil.
func expectCaseResolution(mock sqlmock.Sqlmock, categoryID, studentID, creatorID int64) {
	mock.ExpectQuery("SELECT id, name, description FROM categories").
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))
	mock.ExpectQuery("SELECT id, first_name").
		WithArgs(studentID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT id, first_name").
		WithArgs(creatorID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func caseRows(id int64, kind models.CaseKind) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "code", "occurred_at", "channel", "comment", "confidential", "category_id", "student_id", "creator_id", "kind", "calendar_event_id"}).
		AddRow(id, "Tutoring request", "CASE-2026-0042", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), string(models.ChannelInPerson), "walk-in", kind == models.KindIncident, int64(1), int64(11), int64(21), string(kind), nil)
}

func TestCommonCaseFindByIDRejectsIncidentRow(t *testing.T) {
	commonRepo, _, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, title").
		WithArgs(int64(100)).
		WillReturnRows(caseRows(100, models.KindIncident))
	expectCaseResolution(mock, 1, 11, 21)

	_, err := commonRepo.FindByID(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommonCaseFindByIDMergesMotivation(t *testing.T) {
	commonRepo, _, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, title").
		WithArgs(int64(100)).
		WillReturnRows(caseRows(100, models.KindCommon))
	expectCaseResolution(mock, 1, 11, 21)
	mock.ExpectQuery("SELECT motivation FROM common_cases").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"motivation"}).AddRow("struggling with first-year math"))

	commonCase, err := commonRepo.FindByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "CASE-2026-0042", commonCase.Code)
	assert.Equal(t, "struggling with first-year math", commonCase.Motivation)
	assert.Equal(t, models.KindCommon, commonCase.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentCreateCommitsBothRows(t *testing.T) {
	_, incidentRepo, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO cases").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectExec("INSERT INTO incidents").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	incident := &models.Incident{
		CaseRecord: models.CaseRecord{
			Title:        "Altercation in hallway",
			Code:         "CASE-2026-0043",
			OccurredAt:   time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC),
			Channel:      models.ChannelOther,
			Confidential: true,
			CategoryID:   2,
			StudentID:    11,
			CreatorID:    21,
		},
		Location:        "Building B, second floor",
		InvolvedParties: pq.StringArray{"Ana Gomez", "external visitor"},
		ReporterID:      22,
	}
	err := incidentRepo.Create(context.Background(), incident)
	require.NoError(t, err)
	assert.Equal(t, int64(200), incident.ID)
	assert.Equal(t, models.KindIncident, incident.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentCreateRollsBackOnBaseFailure(t *testing.T) {
	_, incidentRepo, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO cases").
		WillReturnError(errors.New("violates foreign key constraint \"cases_student_id_fkey\""))
	mock.ExpectRollback()

	err := incidentRepo.Create(context.Background(), &models.Incident{CaseRecord: models.CaseRecord{StudentID: 404}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncidentFindByIDRejectsCommonRow(t *testing.T) {
	_, incidentRepo, mock, cleanup := newCaseRepos(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, title").
		WithArgs(int64(100)).
		WillReturnRows(caseRows(100, models.KindCommon))
	expectCaseResolution(mock, 1, 11, 21)

	_, err := incidentRepo.FindByID(context.Background(), 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
