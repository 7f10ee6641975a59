package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

// StaffRepository wraps the user repository for the shared columns and
// owns the staff specialization table holding the role assignment.
type StaffRepository struct {
	db    *sqlx.DB
	users *UserRepository
	roles *RoleRepository
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sqlx.DB, users *UserRepository, roles *RoleRepository) *StaffRepository {
	return &StaffRepository{db: db, users: users, roles: roles}
}

// Create inserts the base user row and the staff row under one
// transaction. A staff member must carry a role at save time.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff, password string) (err error) {
	if staff.Role == nil || staff.Role.ID == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "staff requires an assigned role")
	}
	staff.Kind = models.KindStaff

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin staff create")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.users.create(ctx, tx, &staff.User, password); err != nil {
		return err
	}

	const query = `INSERT INTO staff (id, role_id) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, query, staff.ID, staff.Role.ID); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit staff create")
	}
	return nil
}

// FindByID delegates to the user repository, checks the kind
// discriminator, then loads the role assignment.
func (r *StaffRepository) FindByID(ctx context.Context, id int64) (*models.Staff, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Kind != models.KindStaff {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "staff not found")
	}

	const query = `SELECT role_id FROM staff WHERE id = $1`
	var roleID sql.NullInt64
	if err := r.db.GetContext(ctx, &roleID, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff not found")
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}

	staff := &models.Staff{User: *user}
	if roleID.Valid {
		role, err := r.roles.FindByID(ctx, roleID.Int64)
		if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
			return nil, err
		}
		staff.Role = role
	}
	return staff, nil
}

// FindAll returns every ACTIVE staff member, loading each through FindByID.
func (r *StaffRepository) FindAll(ctx context.Context) ([]models.Staff, error) {
	const query = `SELECT u.id FROM users u JOIN staff s ON s.id = u.id WHERE u.kind = 'STAFF' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query)
}

// FindByRole returns ACTIVE staff members holding the named role.
func (r *StaffRepository) FindByRole(ctx context.Context, roleName string) ([]models.Staff, error) {
	const query = `SELECT u.id FROM users u
JOIN staff s ON s.id = u.id
JOIN roles ro ON ro.id = s.role_id
WHERE ro.name = $1 AND u.kind = 'STAFF' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query, roleName)
}

func (r *StaffRepository) findByIDs(ctx context.Context, query string, args ...interface{}) ([]models.Staff, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list staff ids: %w", err)
	}

	staff := []models.Staff{}
	for _, id := range ids {
		member, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		staff = append(staff, *member)
	}
	return staff, nil
}

// AssignRole points an existing staff row at a different role.
func (r *StaffRepository) AssignRole(ctx context.Context, staffID, roleID int64) error {
	const query = `UPDATE staff SET role_id = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, staffID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// Update replaces the base row and the role assignment under one
// transaction. The role requirement from Create holds on rewrite too.
func (r *StaffRepository) Update(ctx context.Context, staff *models.Staff) (err error) {
	if staff.Role == nil || staff.Role.ID == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "staff requires an assigned role")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin staff update")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.users.update(ctx, tx, &staff.User); err != nil {
		return err
	}

	const query = `UPDATE staff SET role_id = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query, staff.ID, staff.Role.ID); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit staff update")
	}
	return nil
}

// Delete is always logical, delegated to the user repository.
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	return r.users.DeleteLogical(ctx, id)
}
