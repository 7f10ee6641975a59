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

// CommonCaseRepository wraps the case repository for the shared columns
// and owns the common_cases specialization table.
type CommonCaseRepository struct {
	db    *sqlx.DB
	cases *CaseRepository
}

// NewCommonCaseRepository creates a new instance of CommonCaseRepository.
func NewCommonCaseRepository(db *sqlx.DB, cases *CaseRepository) *CommonCaseRepository {
	return &CommonCaseRepository{db: db, cases: cases}
}

// Create inserts the base case row and the specialization row under one
// transaction.
func (r *CommonCaseRepository) Create(ctx context.Context, commonCase *models.CommonCase) (err error) {
	commonCase.Kind = models.KindCommon

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin common case create")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.cases.create(ctx, tx, &commonCase.CaseRecord); err != nil {
		return err
	}

	const query = `INSERT INTO common_cases (id, motivation) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, query, commonCase.ID, commonCase.Motivation); err != nil {
		return fmt.Errorf("create common case: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit common case create")
	}
	return nil
}

// FindByID delegates the base row, checks the kind discriminator, then
// merges the specialization row. An incident queried through this
// repository yields not-found.
func (r *CommonCaseRepository) FindByID(ctx context.Context, id int64) (*models.CommonCase, error) {
	record, err := r.cases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Kind != models.KindCommon {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "common case not found")
	}

	motivation, err := r.loadMotivation(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CommonCase{CaseRecord: *record, Motivation: motivation}, nil
}

// FindAll lists every case and keeps only the COMMON rows, loading each
// specialization payload individually.
func (r *CommonCaseRepository) FindAll(ctx context.Context) ([]models.CommonCase, error) {
	records, err := r.cases.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	commonCases := []models.CommonCase{}
	for _, record := range records {
		if record.Kind != models.KindCommon {
			continue
		}
		motivation, err := r.loadMotivation(ctx, record.ID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		commonCases = append(commonCases, models.CommonCase{CaseRecord: record, Motivation: motivation})
	}
	return commonCases, nil
}

// FindByStudent returns the student's COMMON cases.
func (r *CommonCaseRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.CommonCase, error) {
	records, err := r.cases.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	commonCases := []models.CommonCase{}
	for _, record := range records {
		if record.Kind != models.KindCommon {
			continue
		}
		motivation, err := r.loadMotivation(ctx, record.ID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		commonCases = append(commonCases, models.CommonCase{CaseRecord: record, Motivation: motivation})
	}
	return commonCases, nil
}

// Update replaces the base row and the specialization row under one
// transaction.
func (r *CommonCaseRepository) Update(ctx context.Context, commonCase *models.CommonCase) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin common case update")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.cases.update(ctx, tx, &commonCase.CaseRecord); err != nil {
		return err
	}

	const query = `UPDATE common_cases SET motivation = $2 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query, commonCase.ID, commonCase.Motivation); err != nil {
		return fmt.Errorf("update common case: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit common case update")
	}
	return nil
}

// Delete removes the base row; the specialization row cascades.
func (r *CommonCaseRepository) Delete(ctx context.Context, id int64) error {
	return r.cases.Delete(ctx, id)
}

func (r *CommonCaseRepository) loadMotivation(ctx context.Context, id int64) (string, error) {
	const query = `SELECT motivation FROM common_cases WHERE id = $1`
	var motivation string
	if err := r.db.GetContext(ctx, &motivation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "common case not found")
		}
		return "", fmt.Errorf("load motivation: %w", err)
	}
	return motivation, nil
}
