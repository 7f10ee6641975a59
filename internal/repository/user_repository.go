package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/hash"
)

// UserRepository maps the base users table shared by both hierarchy
// variants. Logical deletion and the credential-sensitive projections
// live here; specialization tables belong to the subtype repositories.
type UserRepository struct {
	db     *sqlx.DB
	hasher hash.Hasher
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB, hasher hash.Hasher) *UserRepository {
	return &UserRepository{db: db, hasher: hasher}
}

// Create hashes the credential and inserts the base row, populating the
// generated id on the user.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) error {
	return r.create(ctx, r.db, user, password)
}

func (r *UserRepository) create(ctx context.Context, q sqlx.ExtContext, user *models.User, password string) error {
	digest, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash credential: %w", err)
	}
	user.PasswordHash = digest
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	const query = `INSERT INTO users (first_name, last_name, email, password_hash, document_id, status, kind) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := q.QueryRowxContext(ctx, query, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.DocumentID, user.Status, user.Kind).Scan(&user.ID); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID returns the base row for an ACTIVE user. Logically deleted
// users are invisible here and surface as not-found.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, first_name, last_name, email, password_hash, document_id, status, kind FROM users WHERE id = $1 AND status = 'ACTIVE'`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if err := checkKind(user.Kind); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns every base row regardless of status.
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, first_name, last_name, email, password_hash, document_id, status, kind FROM users ORDER BY id`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByEmail loads a user by email without filtering on status, left
// joining the staff and role tables so staff rows come back with their
// role attached. Authentication rejects inactive accounts explicitly
// instead of treating them as missing.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.UserWithRole, error) {
	const query = `SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.document_id, u.status, u.kind, s.role_id AS role_id, r.name AS role_name
FROM users u
LEFT JOIN staff s ON s.id = u.id
LEFT JOIN roles r ON r.id = s.role_id
WHERE u.email = $1`
	var user models.UserWithRole
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if err := checkKind(user.Kind); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateCredentials authenticates an email/password pair. Every failure
// mode (missing user, inactive account, wrong password) collapses into the
// same error so callers learn nothing about which check tripped.
func (r *UserRepository) ValidateCredentials(ctx context.Context, email, password string) (*models.UserWithRole, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, err
	}
	if user.Status != models.StatusActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if !r.hasher.Verify(password, user.PasswordHash) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	return user, nil
}

// Update replaces the mutable base columns.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.update(ctx, r.db, user)
}

func (r *UserRepository) update(ctx context.Context, q sqlx.ExtContext, user *models.User) error {
	const query = `UPDATE users SET first_name = $2, last_name = $3, email = $4, document_id = $5, status = $6 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, user.ID, user.FirstName, user.LastName, user.Email, user.DocumentID, user.Status); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ChangePassword hashes and stores a new credential.
func (r *UserRepository) ChangePassword(ctx context.Context, id int64, password string) error {
	digest, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash credential: %w", err)
	}
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, digest); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// FindNonSensitiveByID projects the base row without the credential column.
func (r *UserRepository) FindNonSensitiveByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT id, first_name, last_name, email, document_id, status, kind FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user projection: %w", err)
	}
	return &user, nil
}

// DeleteLogical flips the status to INACTIVE. The row, and any
// specialization row keyed by the same id, stays in place.
func (r *UserRepository) DeleteLogical(ctx context.Context, id int64) error {
	const query = `UPDATE users SET status = 'INACTIVE' WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

func checkKind(kind models.UserKind) error {
	switch kind {
	case models.KindStudent, models.KindStaff:
		return nil
	default:
		return fmt.Errorf("unknown user kind %q", kind)
	}
}
