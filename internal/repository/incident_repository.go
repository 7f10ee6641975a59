package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

// IncidentRepository wraps the case repository for the shared columns and
// owns the incidents specialization table. Incidents additionally carry a
// reporting staff member distinct from the creator.
type IncidentRepository struct {
	db    *sqlx.DB
	cases *CaseRepository
	staff *StaffRepository
}

// NewIncidentRepository creates a new instance of IncidentRepository.
func NewIncidentRepository(db *sqlx.DB, cases *CaseRepository, staff *StaffRepository) *IncidentRepository {
	return &IncidentRepository{db: db, cases: cases, staff: staff}
}

type incidentRow struct {
	Location        string         `db:"location"`
	InvolvedParties pq.StringArray `db:"involved_parties"`
	ReporterID      int64          `db:"reporter_id"`
}

// Create inserts the base case row and the specialization row under one
// transaction.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) (err error) {
	incident.Kind = models.KindIncident

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin incident create")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.cases.create(ctx, tx, &incident.CaseRecord); err != nil {
		return err
	}

	const query = `INSERT INTO incidents (id, location, involved_parties, reporter_id) VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, query, incident.ID, incident.Location, incident.InvolvedParties, incident.ReporterID); err != nil {
		return fmt.Errorf("create incident: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit incident create")
	}
	return nil
}

// FindByID delegates the base row, checks the kind discriminator, then
// merges the specialization row and resolves the reporter.
func (r *IncidentRepository) FindByID(ctx context.Context, id int64) (*models.Incident, error) {
	record, err := r.cases.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Kind != models.KindIncident {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "incident not found")
	}

	row, err := r.loadRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, record, row)
}

// FindAll lists every case and keeps only the INCIDENT rows, loading each
// specialization payload individually.
func (r *IncidentRepository) FindAll(ctx context.Context) ([]models.Incident, error) {
	records, err := r.cases.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.assembleAll(ctx, records)
}

// FindByStudent returns the student's INCIDENT cases.
func (r *IncidentRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.Incident, error) {
	records, err := r.cases.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return r.assembleAll(ctx, records)
}

// FindByReporter returns incidents reported by the given staff member.
func (r *IncidentRepository) FindByReporter(ctx context.Context, reporterID int64) ([]models.Incident, error) {
	const query = `SELECT c.id FROM cases c JOIN incidents i ON i.id = c.id WHERE i.reporter_id = $1 ORDER BY c.id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, reporterID); err != nil {
		return nil, fmt.Errorf("list incidents by reporter: %w", err)
	}

	incidents := []models.Incident{}
	for _, id := range ids {
		incident, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		incidents = append(incidents, *incident)
	}
	return incidents, nil
}

// Update replaces the base row and the specialization row under one
// transaction. The reporter is fixed at creation.
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin incident update")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.cases.update(ctx, tx, &incident.CaseRecord); err != nil {
		return err
	}

	const query = `UPDATE incidents SET location = $2, involved_parties = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query, incident.ID, incident.Location, incident.InvolvedParties); err != nil {
		return fmt.Errorf("update incident: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit incident update")
	}
	return nil
}

// Delete removes the base row; the specialization row cascades.
func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	return r.cases.Delete(ctx, id)
}

func (r *IncidentRepository) assembleAll(ctx context.Context, records []models.CaseRecord) ([]models.Incident, error) {
	incidents := []models.Incident{}
	for i := range records {
		if records[i].Kind != models.KindIncident {
			continue
		}
		row, err := r.loadRow(ctx, records[i].ID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		incident, err := r.assemble(ctx, &records[i], row)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *incident)
	}
	return incidents, nil
}

func (r *IncidentRepository) assemble(ctx context.Context, record *models.CaseRecord, row *incidentRow) (*models.Incident, error) {
	incident := &models.Incident{
		CaseRecord:      *record,
		Location:        row.Location,
		InvolvedParties: row.InvolvedParties,
		ReporterID:      row.ReporterID,
	}

	reporter, err := r.staff.FindByID(ctx, row.ReporterID)
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		return nil, err
	}
	incident.Reporter = reporter
	return incident, nil
}

func (r *IncidentRepository) loadRow(ctx context.Context, id int64) (*incidentRow, error) {
	const query = `SELECT location, involved_parties, reporter_id FROM incidents WHERE id = $1`
	var row incidentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "incident not found")
		}
		return nil, fmt.Errorf("load incident: %w", err)
	}
	return &row, nil
}
