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

// RoleRepository manages roles and the role_permissions association
// table. Association writes are batched; bulk reads resolve every
// role's permission set in a single extra query.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

type rolePermissionRow struct {
	RoleID       int64 `db:"role_id"`
	PermissionID int64 `db:"permission_id"`
}

// Create inserts the role row and batch-inserts its permission
// associations as one statement inside one transaction. A role without
// permissions is rejected before anything is written.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) (err error) {
	if len(role.Permissions) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "a role requires at least one permission")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin role create")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO roles (name) VALUES ($1) RETURNING id`
	if err = tx.QueryRowxContext(ctx, query, role.Name).Scan(&role.ID); err != nil {
		err = fmt.Errorf("create role: %w", err)
		return err
	}

	if err = insertAssociations(ctx, tx, role); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit role create")
	}
	return nil
}

// FindByID loads a role with its permission set.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*models.Role, error) {
	const query = `SELECT id, name FROM roles WHERE id = $1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, fmt.Errorf("find role by id: %w", err)
	}

	permissions, err := r.loadPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Permissions = permissions
	return &role, nil
}

// FindByName loads a role by its unique name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	const query = `SELECT id, name FROM roles WHERE name = $1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}

	permissions, err := r.loadPermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = permissions
	return &role, nil
}

// FindAll loads every role in one query and distributes permissions from
// a single association query, O(roles + associations) instead of one
// lookup per role.
func (r *RoleRepository) FindAll(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name FROM roles ORDER BY id`
	roles := []models.Role{}
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if len(roles) == 0 {
		return roles, nil
	}

	byID := make(map[int64]*models.Role, len(roles))
	for i := range roles {
		roles[i].Permissions = []models.Permission{}
		byID[roles[i].ID] = &roles[i]
	}

	const assocQuery = `SELECT rp.role_id, p.id, p.name FROM role_permissions rp JOIN permissions p ON p.id = rp.permission_id ORDER BY rp.role_id, p.id`
	rows, err := r.db.QueryxContext(ctx, assocQuery)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleID int64
		var perm models.Permission
		if err := rows.Scan(&roleID, &perm.ID, &perm.Name); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		if role, ok := byID[roleID]; ok {
			role.Permissions = append(role.Permissions, perm)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role permissions: %w", err)
	}

	return roles, nil
}

// Update replaces the role name and its whole permission set: existing
// associations are deleted unconditionally and the new set re-inserted.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin role update")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE roles SET name = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query, role.ID, role.Name); err != nil {
		err = fmt.Errorf("update role: %w", err)
		return err
	}

	const deleteQuery = `DELETE FROM role_permissions WHERE role_id = $1`
	if _, err = tx.ExecContext(ctx, deleteQuery, role.ID); err != nil {
		err = fmt.Errorf("clear role permissions: %w", err)
		return err
	}

	if len(role.Permissions) > 0 {
		if err = insertAssociations(ctx, tx, role); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit role update")
	}
	return nil
}

// Delete physically removes the role row.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM roles WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// AddPermission associates a permission after validating that the role
// exists, the permission exists and the pair is not already assigned.
func (r *RoleRepository) AddPermission(ctx context.Context, roleID, permissionID int64) error {
	if err := r.checkRoleExists(ctx, roleID); err != nil {
		return err
	}
	if err := r.checkPermissionExists(ctx, permissionID); err != nil {
		return err
	}
	assigned, err := r.isAssigned(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if assigned {
		return appErrors.Clone(appErrors.ErrValidation, "permission already assigned to role")
	}

	const query = `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("add permission to role: %w", err)
	}
	return nil
}

// RemovePermission detaches a permission after validating both sides and
// the current assignment.
func (r *RoleRepository) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	if err := r.checkRoleExists(ctx, roleID); err != nil {
		return err
	}
	if err := r.checkPermissionExists(ctx, permissionID); err != nil {
		return err
	}
	assigned, err := r.isAssigned(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if !assigned {
		return appErrors.Clone(appErrors.ErrValidation, "permission not assigned to role")
	}

	const query = `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("remove permission from role: %w", err)
	}
	return nil
}

// HasStaff reports whether any staff member is still assigned to the
// role. The role policy layer uses it as a delete guard.
func (r *RoleRepository) HasStaff(ctx context.Context, roleID int64) (bool, error) {
	const query = `SELECT 1 FROM staff WHERE role_id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check role staff: %w", err)
	}
	return true, nil
}

func (r *RoleRepository) loadPermissions(ctx context.Context, roleID int64) ([]models.Permission, error) {
	const query = `SELECT p.id, p.name FROM permissions p JOIN role_permissions rp ON rp.permission_id = p.id WHERE rp.role_id = $1 ORDER BY p.id`
	permissions := []models.Permission{}
	if err := r.db.SelectContext(ctx, &permissions, query, roleID); err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	return permissions, nil
}

func (r *RoleRepository) checkRoleExists(ctx context.Context, roleID int64) error {
	const query = `SELECT 1 FROM roles WHERE id = $1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "role not found")
		}
		return fmt.Errorf("check role: %w", err)
	}
	return nil
}

func (r *RoleRepository) checkPermissionExists(ctx context.Context, permissionID int64) error {
	const query = `SELECT 1 FROM permissions WHERE id = $1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, permissionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "permission not found")
		}
		return fmt.Errorf("check permission: %w", err)
	}
	return nil
}

func (r *RoleRepository) isAssigned(ctx context.Context, roleID, permissionID int64) (bool, error) {
	const query = `SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	var one int
	if err := r.db.GetContext(ctx, &one, query, roleID, permissionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return true, nil
}

// insertAssociations writes every (role, permission) pair as a single
// multi-row insert, not one statement per pair.
func insertAssociations(ctx context.Context, tx *sqlx.Tx, role *models.Role) error {
	rows := make([]rolePermissionRow, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		rows = append(rows, rolePermissionRow{RoleID: role.ID, PermissionID: perm.ID})
	}
	const query = `INSERT INTO role_permissions (role_id, permission_id) VALUES (:role_id, :permission_id)`
	if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("associate permissions: %w", err)
	}
	return nil
}
