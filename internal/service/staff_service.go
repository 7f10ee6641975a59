package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

type staffRepository interface {
	Create(ctx context.Context, staff *models.Staff, password string) error
	FindByID(ctx context.Context, id int64) (*models.Staff, error)
	FindAll(ctx context.Context) ([]models.Staff, error)
	FindByRole(ctx context.Context, roleName string) ([]models.Staff, error)
	AssignRole(ctx context.Context, staffID, roleID int64) error
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id int64) error
}

// StaffService wraps the staff repository with payload validation and role
// existence checks.
type StaffService struct {
	repo      staffRepository
	roles     roleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffRepository, roles roleRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StaffService{repo: repo, roles: roles, validator: validate, logger: logger}
}

// Create registers a staff member. The role must exist beforehand.
func (s *StaffService) Create(ctx context.Context, req models.CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}

	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		User: models.User{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			DocumentID: req.DocumentID,
		},
		Role: role,
	}
	if err := s.repo.Create(ctx, staff, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info("staff registered", zap.Int64("id", staff.ID), zap.String("role", role.Name))
	return staff, nil
}

// Get loads a staff member with their role.
func (s *StaffService) Get(ctx context.Context, id int64) (*models.Staff, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns staff, optionally filtered by role name.
func (s *StaffService) List(ctx context.Context, roleName string) ([]models.Staff, error) {
	if roleName != "" {
		return s.repo.FindByRole(ctx, roleName)
	}
	return s.repo.FindAll(ctx)
}

// Update replaces the mutable fields of an existing staff member.
func (s *StaffService) Update(ctx context.Context, id int64, req models.UpdateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}

	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	staff.FirstName = req.FirstName
	staff.LastName = req.LastName
	staff.Email = req.Email
	staff.DocumentID = req.DocumentID
	staff.Role = role

	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// AssignRole points the staff member at a different role.
func (s *StaffService) AssignRole(ctx context.Context, staffID int64, req models.AssignRoleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		return err
	}
	if _, err := s.roles.FindByID(ctx, req.RoleID); err != nil {
		return err
	}
	return s.repo.AssignRole(ctx, staffID, req.RoleID)
}

// Delete deactivates the staff member.
func (s *StaffService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
