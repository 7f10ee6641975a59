package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, student *models.Student, password string) error
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindAll(ctx context.Context) ([]models.Student, error)
	FindByProgram(ctx context.Context, program string) ([]models.Student, error)
	FindByCohort(ctx context.Context, cohort string) ([]models.Student, error)
	FindByHealthSystem(ctx context.Context, healthSystem string) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	UpdatePhone(ctx context.Context, id int64, phone string) error
	Delete(ctx context.Context, id int64) error
}

// StudentService wraps the student repository with payload validation.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Create registers a student from the request payload.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		User: models.User{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			DocumentID: req.DocumentID,
		},
		ReferralReason:    req.ReferralReason,
		Program:           req.Program,
		Cohort:            req.Cohort,
		Phone:             req.Phone,
		Street:            req.Street,
		DoorNumber:        req.DoorNumber,
		BirthDate:         req.BirthDate,
		PhotoRef:          req.PhotoRef,
		HealthSystem:      req.HealthSystem,
		GeneralComments:   req.GeneralComments,
		HealthStatus:      req.HealthStatus,
		ConfidentialNotes: pq.StringArray(req.ConfidentialNotes),
	}
	if err := s.repo.Create(ctx, student, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info("student registered", zap.Int64("id", student.ID))
	return student, nil
}

// Get loads a student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns students, optionally filtered by a single criterion.
func (s *StudentService) List(ctx context.Context, program, cohort, healthSystem string) ([]models.Student, error) {
	switch {
	case program != "":
		return s.repo.FindByProgram(ctx, program)
	case cohort != "":
		return s.repo.FindByCohort(ctx, cohort)
	case healthSystem != "":
		return s.repo.FindByHealthSystem(ctx, healthSystem)
	default:
		return s.repo.FindAll(ctx)
	}
}

// Update replaces the mutable fields of an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.DocumentID = req.DocumentID
	student.ReferralReason = req.ReferralReason
	student.Program = req.Program
	student.Cohort = req.Cohort
	student.Phone = req.Phone
	student.Street = req.Street
	student.DoorNumber = req.DoorNumber
	student.BirthDate = req.BirthDate
	student.PhotoRef = req.PhotoRef
	student.HealthSystem = req.HealthSystem
	student.GeneralComments = req.GeneralComments
	student.HealthStatus = req.HealthStatus
	student.ConfidentialNotes = pq.StringArray(req.ConfidentialNotes)

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdatePhone changes only the contact phone.
func (s *StudentService) UpdatePhone(ctx context.Context, id int64, req models.UpdatePhoneRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid phone payload")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdatePhone(ctx, id, req.Phone)
}

// Delete deactivates the student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
