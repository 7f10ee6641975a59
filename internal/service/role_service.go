package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

type roleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	FindByID(ctx context.Context, id int64) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	FindAll(ctx context.Context) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id int64) error
	AddPermission(ctx context.Context, roleID, permissionID int64) error
	RemovePermission(ctx context.Context, roleID, permissionID int64) error
	HasStaff(ctx context.Context, roleID int64) (bool, error)
}

type permissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	FindAll(ctx context.Context) ([]models.Permission, error)
	FindByID(ctx context.Context, id int64) (*models.Permission, error)
	Delete(ctx context.Context, id int64) error
}

const rolePermissionsCacheTTL = 15 * time.Minute

// RoleService enforces the role policy: unique names, at least one
// permission per role and no deletion while staff still hold the role.
// Resolved permission sets are cached for the authorization middleware.
type RoleService struct {
	roles       roleRepository
	permissions permissionRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles roleRepository, permissions permissionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoleService{roles: roles, permissions: permissions, cache: cache, validator: validate, logger: logger}
}

// Create validates uniqueness of the name and delegates; the repository
// enforces the non-empty permission set.
func (s *RoleService) Create(ctx context.Context, req models.CreateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}

	if _, err := s.roles.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a role with that name already exists")
	} else if !errors.Is(err, appErrors.ErrNotFound) {
		return nil, err
	}

	role := &models.Role{Name: req.Name}
	for _, id := range req.PermissionIDs {
		role.Permissions = append(role.Permissions, models.Permission{ID: id})
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, role.ID)
}

// Get loads a role with its permission set.
func (s *RoleService) Get(ctx context.Context, id int64) (*models.Role, error) {
	return s.roles.FindByID(ctx, id)
}

// List returns every role.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	return s.roles.FindAll(ctx)
}

// ListPermissions returns the permission catalog.
func (s *RoleService) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	return s.permissions.FindAll(ctx)
}

// CreatePermission extends the permission catalog. Names are unique.
func (s *RoleService) CreatePermission(ctx context.Context, req models.CreatePermissionRequest) (*models.Permission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid permission payload")
	}

	existing, err := s.permissions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, perm := range existing {
		if perm.Name == req.Name {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a permission with that name already exists")
		}
	}

	permission := &models.Permission{Name: req.Name}
	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// DeletePermission removes a permission from the catalog. Roles lose the
// grant through the association table's cascade; cached role resolutions
// age out within the cache TTL.
func (s *RoleService) DeletePermission(ctx context.Context, id int64) error {
	if _, err := s.permissions.FindByID(ctx, id); err != nil {
		return err
	}
	return s.permissions.Delete(ctx, id)
}

// Update replaces the role and its whole permission set, then drops the
// cached resolution.
func (s *RoleService) Update(ctx context.Context, role *models.Role) error {
	if len(role.Permissions) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "a role requires at least one permission")
	}

	existing, err := s.roles.FindByName(ctx, role.Name)
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != role.ID {
		return appErrors.Clone(appErrors.ErrConflict, "a role with that name already exists")
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return err
	}
	s.invalidate(ctx, role.ID)
	return nil
}

// Delete removes a role unless staff members still hold it.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return err
	}

	held, err := s.roles.HasStaff(ctx, id)
	if err != nil {
		return err
	}
	if held {
		return appErrors.Clone(appErrors.ErrConflict, "role is still assigned to staff members")
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// AddPermission attaches a permission to a role.
func (s *RoleService) AddPermission(ctx context.Context, roleID, permissionID int64) error {
	if err := s.roles.AddPermission(ctx, roleID, permissionID); err != nil {
		return err
	}
	s.invalidate(ctx, roleID)
	return nil
}

// RemovePermission detaches a permission from a role.
func (s *RoleService) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	if err := s.roles.RemovePermission(ctx, roleID, permissionID); err != nil {
		return err
	}
	s.invalidate(ctx, roleID)
	return nil
}

// PermissionsForRole resolves the permission names granted by a role,
// serving from cache when possible. Authorization checks call this on
// every protected request.
func (s *RoleService) PermissionsForRole(ctx context.Context, roleID int64) ([]string, error) {
	key := rolePermissionsKey(roleID)

	var cached []string
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		names = append(names, perm.Name)
	}

	if err := s.cache.Set(ctx, key, names, rolePermissionsCacheTTL); err != nil {
		s.logger.Warn("failed to cache role permissions", zap.Int64("role_id", roleID), zap.Error(err))
	}
	return names, nil
}

func (s *RoleService) invalidate(ctx context.Context, roleID int64) {
	if err := s.cache.Invalidate(ctx, rolePermissionsKey(roleID)); err != nil {
		s.logger.Warn("failed to invalidate role cache", zap.Int64("role_id", roleID), zap.Error(err))
	}
}

func rolePermissionsKey(roleID int64) string {
	return fmt.Sprintf("roles:%d:permissions", roleID)
}
