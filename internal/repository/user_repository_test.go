package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

// stubHasher keeps credential tests deterministic.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (stubHasher) Verify(plaintext, digest string) bool  { return "hashed:"+plaintext == digest }

func TestCreateUserReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, stubHasher{})

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ana", "Gomez", "ana@example.com", "hashed:secret", "5123456-7", string(models.StatusActive), string(models.KindStudent)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	user := &models.User{FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com", DocumentID: "5123456-7", Kind: models.KindStudent}
	err := repo.Create(context.Background(), user, "secret")
	require.NoError(t, err)
	assert.Greater(t, user.ID, int64(0))
	assert.Equal(t, "hashed:secret", user.PasswordHash)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDHidesInactiveUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, stubHasher{})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, password_hash, document_id, status, kind FROM users WHERE id = $1 AND status = 'ACTIVE'")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCredentialsUniformFailures(t *testing.T) {
	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "document_id", "status", "kind", "role_id", "role_name"})
	}

	t.Run("unknown email", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		repo := NewUserRepository(db, stubHasher{})

		mock.ExpectQuery("SELECT u.id").WithArgs("ghost@example.com").WillReturnRows(userRows())

		_, err := repo.ValidateCredentials(context.Background(), "ghost@example.com", "pw")
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("inactive account", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		repo := NewUserRepository(db, stubHasher{})

		rows := userRows().AddRow(int64(1), "Ana", "Gomez", "ana@example.com", "hashed:pw", "5123456-7", string(models.StatusInactive), string(models.KindStudent), nil, nil)
		mock.ExpectQuery("SELECT u.id").WithArgs("ana@example.com").WillReturnRows(rows)

		_, err := repo.ValidateCredentials(context.Background(), "ana@example.com", "pw")
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		repo := NewUserRepository(db, stubHasher{})

		rows := userRows().AddRow(int64(1), "Ana", "Gomez", "ana@example.com", "hashed:pw", "5123456-7", string(models.StatusActive), string(models.KindStudent), nil, nil)
		mock.ExpectQuery("SELECT u.id").WithArgs("ana@example.com").WillReturnRows(rows)

		_, err := repo.ValidateCredentials(context.Background(), "ana@example.com", "other")
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
	})
}

func TestValidateCredentialsSuccessAttachesRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, stubHasher{})

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "document_id", "status", "kind", "role_id", "role_name"}).
		AddRow(int64(2), "Luis", "Diaz", "luis@example.com", "hashed:pw", "4987654-3", string(models.StatusActive), string(models.KindStaff), int64(5), "Counselor")
	mock.ExpectQuery("SELECT u.id").WithArgs("luis@example.com").WillReturnRows(rows)

	user, err := repo.ValidateCredentials(context.Background(), "luis@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, user.RoleID)
	assert.Equal(t, int64(5), *user.RoleID)
	require.NotNil(t, user.RoleName)
	assert.Equal(t, "Counselor", *user.RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLogicalFlipsStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, stubHasher{})

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET status = 'INACTIVE' WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteLogical(context.Background(), 9)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordStoresNewDigest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, stubHasher{})

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(int64(4), "hashed:newpw").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ChangePassword(context.Background(), 4, "newpw")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
