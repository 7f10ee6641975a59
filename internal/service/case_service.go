package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
	"github.com/noah-isme/sienep-api/pkg/jobs"
)

const (
	jobCalendarCreate = "calendar.create"
	jobCalendarDelete = "calendar.delete"
)

type caseBaseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.CaseRecord, error)
	FindByCode(ctx context.Context, code string) (*models.CaseRecord, error)
	FindAll(ctx context.Context) ([]models.CaseRecord, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.CaseRecord, error)
	FindByCategory(ctx context.Context, categoryID int64) ([]models.CaseRecord, error)
	UpdateComment(ctx context.Context, id int64, comment string) error
	SetCalendarEventID(ctx context.Context, id int64, eventID *string) error
	Delete(ctx context.Context, id int64) error
}

type commonCaseRepository interface {
	Create(ctx context.Context, commonCase *models.CommonCase) error
	FindByID(ctx context.Context, id int64) (*models.CommonCase, error)
	FindAll(ctx context.Context) ([]models.CommonCase, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.CommonCase, error)
	Update(ctx context.Context, commonCase *models.CommonCase) error
}

type incidentCaseRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	FindByID(ctx context.Context, id int64) (*models.Incident, error)
	FindAll(ctx context.Context) ([]models.Incident, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.Incident, error)
	FindByReporter(ctx context.Context, reporterID int64) ([]models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
}

// CaseServiceConfig tunes the calendar dispatch behaviour.
type CaseServiceConfig struct {
	CalendarEnabled bool
	Workers         int
	QueueSize       int
	MaxRetries      int
	RetryDelay      time.Duration
	DefaultMinutes  int
}

// CaseService owns the case workflow: code assignment, confidentiality
// defaults, comment updates and best-effort calendar dispatch through a
// background queue. Calendar failures never fail the case operation.
type CaseService struct {
	cases     caseBaseRepository
	common    commonCaseRepository
	incidents incidentCaseRepository
	notifier  CalendarNotifier
	validator *validator.Validate
	logger    *zap.Logger
	config    CaseServiceConfig

	queue *jobs.Queue[calendarJob]
}

// calendarJob is the calendar queue payload. Create jobs carry the case
// fields, delete jobs only the event id.
type calendarJob struct {
	CaseID   int64
	Code     string
	Title    string
	StartsAt time.Time
	EventID  string
}

// NewCaseService constructs a CaseService with its calendar queue.
func NewCaseService(cases caseBaseRepository, common commonCaseRepository, incidents incidentCaseRepository, notifier CalendarNotifier, validate *validator.Validate, logger *zap.Logger, config CaseServiceConfig) *CaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if notifier == nil {
		notifier = NewNoopCalendar(logger)
	}
	if config.DefaultMinutes <= 0 {
		config.DefaultMinutes = 30
	}

	s := &CaseService{
		cases:     cases,
		common:    common,
		incidents: incidents,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		config:    config,
	}
	s.queue = jobs.NewQueue[calendarJob]("calendar", s.handleCalendarJob, jobs.QueueConfig{
		Workers:    config.Workers,
		BufferSize: config.QueueSize,
		MaxRetries: config.MaxRetries,
		RetryDelay: config.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the calendar workers.
func (s *CaseService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the calendar workers.
func (s *CaseService) Stop() {
	s.queue.Stop()
}

// GenerateCode produces a display code of the form CASE-<year>-NNNN. The
// suffix is random, collisions across a year are possible and accepted.
func (s *CaseService) GenerateCode() string {
	return fmt.Sprintf("CASE-%d-%04d", time.Now().UTC().Year(), rand.Intn(10000))
}

// CreateCommonCase opens a routine case. Common cases default to
// non-confidential.
func (s *CaseService) CreateCommonCase(ctx context.Context, req models.CreateCommonCaseRequest, creatorID int64) (*models.CommonCase, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}

	commonCase := &models.CommonCase{
		CaseRecord: models.CaseRecord{
			Title:        req.Title,
			Code:         s.GenerateCode(),
			OccurredAt:   req.OccurredAt,
			Channel:      req.Channel,
			Comment:      req.Comment,
			Confidential: false,
			CategoryID:   req.CategoryID,
			StudentID:    req.StudentID,
			CreatorID:    creatorID,
		},
		Motivation: req.Motivation,
	}
	if err := s.common.Create(ctx, commonCase); err != nil {
		return nil, err
	}

	s.enqueueCalendarCreate(&commonCase.CaseRecord)
	return commonCase, nil
}

// CreateIncident reports an incident. Incidents are confidential by
// default.
func (s *CaseService) CreateIncident(ctx context.Context, req models.CreateIncidentRequest, creatorID int64) (*models.Incident, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid incident payload")
	}

	incident := &models.Incident{
		CaseRecord: models.CaseRecord{
			Title:        req.Title,
			Code:         s.GenerateCode(),
			OccurredAt:   req.OccurredAt,
			Channel:      req.Channel,
			Comment:      req.Comment,
			Confidential: true,
			CategoryID:   req.CategoryID,
			StudentID:    req.StudentID,
			CreatorID:    creatorID,
		},
		Location:        req.Location,
		InvolvedParties: req.InvolvedParties,
		ReporterID:      req.ReporterID,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.enqueueCalendarCreate(&incident.CaseRecord)
	return incident, nil
}

// CloneCommonCase reopens an existing routine case under a fresh code for
// the given creator. Comment and calendar linkage start empty.
func (s *CaseService) CloneCommonCase(ctx context.Context, id int64, creatorID int64) (*models.CommonCase, error) {
	original, err := s.common.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := &models.CommonCase{
		CaseRecord: models.CaseRecord{
			Title:        original.Title,
			Code:         s.GenerateCode(),
			OccurredAt:   time.Now().UTC(),
			Channel:      original.Channel,
			Confidential: original.Confidential,
			CategoryID:   original.CategoryID,
			StudentID:    original.StudentID,
			CreatorID:    creatorID,
		},
		Motivation: original.Motivation,
	}
	if err := s.common.Create(ctx, clone); err != nil {
		return nil, err
	}

	s.enqueueCalendarCreate(&clone.CaseRecord)
	return clone, nil
}

// GetCommonCase loads a routine case.
func (s *CaseService) GetCommonCase(ctx context.Context, id int64) (*models.CommonCase, error) {
	return s.common.FindByID(ctx, id)
}

// GetIncident loads an incident.
func (s *CaseService) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	return s.incidents.FindByID(ctx, id)
}

// GetByCode resolves a case by display code.
func (s *CaseService) GetByCode(ctx context.Context, code string) (*models.CaseRecord, error) {
	return s.cases.FindByCode(ctx, code)
}

// ListCases returns every case regardless of variant.
func (s *CaseService) ListCases(ctx context.Context) ([]models.CaseRecord, error) {
	return s.cases.FindAll(ctx)
}

// ListCommonCases returns every routine case.
func (s *CaseService) ListCommonCases(ctx context.Context) ([]models.CommonCase, error) {
	return s.common.FindAll(ctx)
}

// ListIncidents returns every incident.
func (s *CaseService) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return s.incidents.FindAll(ctx)
}

// ListIncidentsByReporter returns the incidents filed by a staff member.
func (s *CaseService) ListIncidentsByReporter(ctx context.Context, reporterID int64) ([]models.Incident, error) {
	return s.incidents.FindByReporter(ctx, reporterID)
}

// ListByStudent returns the student's full case history.
func (s *CaseService) ListByStudent(ctx context.Context, studentID int64) ([]models.CaseRecord, error) {
	return s.cases.FindByStudent(ctx, studentID)
}

// ListByCategory filters cases by category.
func (s *CaseService) ListByCategory(ctx context.Context, categoryID int64) ([]models.CaseRecord, error) {
	return s.cases.FindByCategory(ctx, categoryID)
}

// UpdateComment rewrites the free-text comment of any case variant.
func (s *CaseService) UpdateComment(ctx context.Context, id int64, req models.UpdateCaseCommentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	if _, err := s.cases.FindByID(ctx, id); err != nil {
		return err
	}
	return s.cases.UpdateComment(ctx, id, req.Comment)
}

// UpdateCommonCase replaces the mutable fields of a routine case. Code,
// kind and creator are fixed at creation time.
func (s *CaseService) UpdateCommonCase(ctx context.Context, id int64, req models.UpdateCommonCaseRequest) (*models.CommonCase, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}

	commonCase, err := s.common.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	commonCase.Title = req.Title
	commonCase.OccurredAt = req.OccurredAt
	commonCase.Channel = req.Channel
	commonCase.Comment = req.Comment
	commonCase.Confidential = req.Confidential
	commonCase.CategoryID = req.CategoryID
	commonCase.StudentID = req.StudentID
	commonCase.Motivation = req.Motivation

	if err := s.common.Update(ctx, commonCase); err != nil {
		return nil, err
	}
	return s.common.FindByID(ctx, id)
}

// UpdateIncident replaces the mutable fields of an incident. The reporter
// stays as recorded at creation, and incidents stay confidential.
func (s *CaseService) UpdateIncident(ctx context.Context, id int64, req models.UpdateIncidentRequest) (*models.Incident, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid incident payload")
	}

	incident, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	incident.Title = req.Title
	incident.OccurredAt = req.OccurredAt
	incident.Channel = req.Channel
	incident.Comment = req.Comment
	incident.CategoryID = req.CategoryID
	incident.StudentID = req.StudentID
	incident.Location = req.Location
	incident.InvolvedParties = req.InvolvedParties

	if err := s.incidents.Update(ctx, incident); err != nil {
		return nil, err
	}
	return s.incidents.FindByID(ctx, id)
}

// DeleteCase removes a case and, when one was linked, tears down its
// calendar event in the background.
func (s *CaseService) DeleteCase(ctx context.Context, id int64) error {
	record, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.cases.Delete(ctx, id); err != nil {
		return err
	}

	if record.CalendarEventID != nil && *record.CalendarEventID != "" {
		s.enqueueCalendarDelete(*record.CalendarEventID)
	}
	return nil
}

func (s *CaseService) enqueueCalendarCreate(record *models.CaseRecord) {
	if !s.config.CalendarEnabled {
		return
	}
	job := jobs.Job[calendarJob]{
		ID:   uuid.NewString(),
		Type: jobCalendarCreate,
		Payload: calendarJob{
			CaseID:   record.ID,
			Code:     record.Code,
			Title:    record.Title,
			StartsAt: record.OccurredAt,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue calendar event", zap.String("code", record.Code), zap.Error(err))
	}
}

func (s *CaseService) enqueueCalendarDelete(eventID string) {
	if !s.config.CalendarEnabled {
		return
	}
	job := jobs.Job[calendarJob]{
		ID:      uuid.NewString(),
		Type:    jobCalendarDelete,
		Payload: calendarJob{EventID: eventID},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue calendar delete", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *CaseService) handleCalendarJob(ctx context.Context, job jobs.Job[calendarJob]) error {
	switch job.Type {
	case jobCalendarCreate:
		eventID, err := s.notifier.CreateEvent(ctx, CalendarEvent{
			CaseID:          job.Payload.CaseID,
			Code:            job.Payload.Code,
			Title:           job.Payload.Title,
			StartsAt:        job.Payload.StartsAt,
			DurationMinutes: s.config.DefaultMinutes,
		})
		if err != nil {
			return err
		}
		if eventID == "" {
			return nil
		}
		return s.cases.SetCalendarEventID(ctx, job.Payload.CaseID, &eventID)
	case jobCalendarDelete:
		return s.notifier.DeleteEvent(ctx, job.Payload.EventID)
	default:
		s.logger.Warn("unknown calendar job type", zap.String("type", job.Type))
		return nil
	}
}
