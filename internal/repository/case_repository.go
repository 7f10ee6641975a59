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

// CaseRepository maps the base cases table shared by both case variants.
// Reads resolve the category, student and creator relations through the
// sibling repositories so callers always receive a fully hydrated record.
type CaseRepository struct {
	db         *sqlx.DB
	categories *CategoryRepository
	students   *StudentRepository
	users      *UserRepository
}

// NewCaseRepository creates a new instance of CaseRepository.
func NewCaseRepository(db *sqlx.DB, categories *CategoryRepository, students *StudentRepository, users *UserRepository) *CaseRepository {
	return &CaseRepository{db: db, categories: categories, students: students, users: users}
}

const caseColumns = `id, title, code, occurred_at, channel, comment, confidential, category_id, student_id, creator_id, kind, calendar_event_id`

// Create inserts the base row outside a transaction, for cases that carry
// no specialization payload yet. Variant repositories use the tx form.
func (r *CaseRepository) Create(ctx context.Context, record *models.CaseRecord) error {
	return r.create(ctx, r.db, record)
}

func (r *CaseRepository) create(ctx context.Context, q sqlx.ExtContext, record *models.CaseRecord) error {
	const query = `INSERT INTO cases (title, code, occurred_at, channel, comment, confidential, category_id, student_id, creator_id, kind) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := q.QueryRowxContext(ctx, query,
		record.Title,
		record.Code,
		record.OccurredAt,
		record.Channel,
		record.Comment,
		record.Confidential,
		record.CategoryID,
		record.StudentID,
		record.CreatorID,
		record.Kind,
	).Scan(&record.ID); err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// FindByID loads the base row and resolves its relations.
func (r *CaseRepository) FindByID(ctx context.Context, id int64) (*models.CaseRecord, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	var record models.CaseRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, fmt.Errorf("find case by id: %w", err)
	}
	if err := r.resolve(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByCode loads a case by its display code.
func (r *CaseRepository) FindByCode(ctx context.Context, code string) (*models.CaseRecord, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE code = $1`
	var record models.CaseRecord
	if err := r.db.GetContext(ctx, &record, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, fmt.Errorf("find case by code: %w", err)
	}
	if err := r.resolve(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll returns every case, relations resolved row by row.
func (r *CaseRepository) FindAll(ctx context.Context) ([]models.CaseRecord, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases ORDER BY id`
	return r.selectAndResolve(ctx, query)
}

// FindByStudent returns every case opened for the given student.
func (r *CaseRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.CaseRecord, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE student_id = $1 ORDER BY id`
	return r.selectAndResolve(ctx, query, studentID)
}

// FindByCategory returns every case filed under the given category.
func (r *CaseRepository) FindByCategory(ctx context.Context, categoryID int64) ([]models.CaseRecord, error) {
	const query = `SELECT ` + caseColumns + ` FROM cases WHERE category_id = $1 ORDER BY id`
	return r.selectAndResolve(ctx, query, categoryID)
}

func (r *CaseRepository) selectAndResolve(ctx context.Context, query string, args ...interface{}) ([]models.CaseRecord, error) {
	records := []models.CaseRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	for i := range records {
		if err := r.resolve(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Update replaces the mutable base columns. The code, kind and creator are
// fixed at creation and never rewritten.
func (r *CaseRepository) Update(ctx context.Context, record *models.CaseRecord) error {
	return r.update(ctx, r.db, record)
}

func (r *CaseRepository) update(ctx context.Context, q sqlx.ExtContext, record *models.CaseRecord) error {
	const query = `UPDATE cases SET title = $2, occurred_at = $3, channel = $4, comment = $5, confidential = $6, category_id = $7, student_id = $8 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.OccurredAt,
		record.Channel,
		record.Comment,
		record.Confidential,
		record.CategoryID,
		record.StudentID,
	); err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	return nil
}

// UpdateComment rewrites only the free-text comment.
func (r *CaseRepository) UpdateComment(ctx context.Context, id int64, comment string) error {
	const query = `UPDATE cases SET comment = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, comment); err != nil {
		return fmt.Errorf("update case comment: %w", err)
	}
	return nil
}

// SetCalendarEventID records (or clears, with nil) the external calendar
// event linked to the case.
func (r *CaseRepository) SetCalendarEventID(ctx context.Context, id int64, eventID *string) error {
	const query = `UPDATE cases SET calendar_event_id = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, eventID); err != nil {
		return fmt.Errorf("set case calendar event: %w", err)
	}
	return nil
}

// Delete physically removes the base row; the specialization row follows
// via its foreign key.
func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM cases WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	return nil
}

// resolve hydrates the category, student and creator relations, one lookup
// each. A missing relation row is tolerated and leaves the field nil.
func (r *CaseRepository) resolve(ctx context.Context, record *models.CaseRecord) error {
	category, err := r.categories.FindByID(ctx, record.CategoryID)
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	record.Category = category

	student, err := r.students.FindByID(ctx, record.StudentID)
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	record.Student = student

	creator, err := r.users.FindByID(ctx, record.CreatorID)
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	if creator != nil && creator.Kind == models.KindStaff {
		record.Creator = &models.Staff{User: *creator}
	}
	return nil
}
