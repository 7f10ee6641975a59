package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

func newStaffRepo(t *testing.T) (*StaffRepository, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := newMock(t)
	users := NewUserRepository(db, stubHasher{})
	roles := NewRoleRepository(db)
	return NewStaffRepository(db, users, roles), mock, cleanup
}

func TestStaffCreateRequiresRole(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	staff := &models.Staff{User: models.User{FirstName: "Luis", LastName: "Diaz", Email: "luis@example.com"}}
	err := repo.Create(context.Background(), staff, "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	// nothing reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffCreateCommitsBothRows(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectExec("INSERT INTO staff").
		WithArgs(int64(21), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	staff := &models.Staff{
		User: models.User{FirstName: "Luis", LastName: "Diaz", Email: "luis@example.com", DocumentID: "4987654-3"},
		Role: &models.Role{ID: 5, Name: "Counselor"},
	}
	err := repo.Create(context.Background(), staff, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(21), staff.ID)
	assert.Equal(t, models.KindStaff, staff.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffCreateRollsBackOnSpecializationFailure(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectExec("INSERT INTO staff").
		WillReturnError(errors.New("violates foreign key constraint"))
	mock.ExpectRollback()

	staff := &models.Staff{
		User: models.User{FirstName: "Luis", LastName: "Diaz", Email: "luis@example.com"},
		Role: &models.Role{ID: 404},
	}
	err := repo.Create(context.Background(), staff, "secret")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffUpdateRequiresRole(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	staff := &models.Staff{User: models.User{ID: 21, FirstName: "Luis", LastName: "Diaz", Email: "luis@example.com"}}
	err := repo.Update(context.Background(), staff)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	// nothing reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffUpdateRewritesRoleAssignment(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE staff SET role_id").
		WithArgs(int64(21), int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	staff := &models.Staff{
		User: models.User{ID: 21, FirstName: "Luis", LastName: "Diaz", Email: "luis@example.com", DocumentID: "4987654-3"},
		Role: &models.Role{ID: 6, Name: "Coordinator"},
	}
	err := repo.Update(context.Background(), staff)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffFindByIDAttachesRole(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	userRows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "document_id", "status", "kind"}).
		AddRow(int64(21), "Luis", "Diaz", "luis@example.com", "hash", "4987654-3", string(models.StatusActive), string(models.KindStaff))
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(21)).WillReturnRows(userRows)

	mock.ExpectQuery("SELECT role_id FROM staff").
		WithArgs(int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow(int64(5)))

	mock.ExpectQuery("SELECT id, name FROM roles").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(5), "Counselor"))
	mock.ExpectQuery("SELECT p.id, p.name FROM permissions").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "cases.read"))

	staff, err := repo.FindByID(context.Background(), 21)
	require.NoError(t, err)
	require.NotNil(t, staff.Role)
	assert.Equal(t, "Counselor", staff.Role.Name)
	require.Len(t, staff.Role.Permissions, 1)
	assert.Equal(t, "cases.read", staff.Role.Permissions[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffFindByIDRejectsStudentRow(t *testing.T) {
	repo, mock, cleanup := newStaffRepo(t)
	defer cleanup()

	userRows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "document_id", "status", "kind"}).
		AddRow(int64(11), "Ana", "Gomez", "ana@example.com", "hash", "5123456-7", string(models.StatusActive), string(models.KindStudent))
	mock.ExpectQuery("SELECT id, first_name").WithArgs(int64(11)).WillReturnRows(userRows)

	_, err := repo.FindByID(context.Background(), 11)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
