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

// PermissionRepository maps the permissions catalog.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository creates a new instance of PermissionRepository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Create inserts a permission and populates the generated id.
func (r *PermissionRepository) Create(ctx context.Context, permission *models.Permission) error {
	const query = `INSERT INTO permissions (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, permission.Name).Scan(&permission.ID); err != nil {
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

// FindByID returns a single permission.
func (r *PermissionRepository) FindByID(ctx context.Context, id int64) (*models.Permission, error) {
	const query = `SELECT id, name FROM permissions WHERE id = $1`
	var permission models.Permission
	if err := r.db.GetContext(ctx, &permission, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "permission not found")
		}
		return nil, fmt.Errorf("find permission by id: %w", err)
	}
	return &permission, nil
}

// FindAll lists every permission.
func (r *PermissionRepository) FindAll(ctx context.Context) ([]models.Permission, error) {
	const query = `SELECT id, name FROM permissions ORDER BY id`
	permissions := []models.Permission{}
	if err := r.db.SelectContext(ctx, &permissions, query); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// Delete physically removes the permission row.
func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM permissions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}
