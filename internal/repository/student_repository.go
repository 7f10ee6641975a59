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

// StudentRepository wraps the user repository for the shared columns and
// owns the students specialization table. Multi-table writes run inside a
// single transaction so no partial user is ever visible.
type StudentRepository struct {
	db    *sqlx.DB
	users *UserRepository
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB, users *UserRepository) *StudentRepository {
	return &StudentRepository{db: db, users: users}
}

type studentRow struct {
	ReferralReason    string         `db:"referral_reason"`
	Program           string         `db:"program"`
	Cohort            string         `db:"cohort"`
	Phone             string         `db:"phone"`
	Street            string         `db:"street"`
	DoorNumber        string         `db:"door_number"`
	BirthDate         sql.NullTime   `db:"birth_date"`
	PhotoRef          string         `db:"photo_ref"`
	HealthSystem      string         `db:"health_system"`
	GeneralComments   string         `db:"general_comments"`
	HealthStatus      string         `db:"health_status"`
	ConfidentialNotes pq.StringArray `db:"confidential_notes"`
}

const studentColumns = `referral_reason, program, cohort, phone, street, door_number, birth_date, photo_ref, health_system, general_comments, health_status, confidential_notes`

// Create inserts the base user row and the specialization row under one
// transaction; any failure rolls both back.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, password string) (err error) {
	student.Kind = models.KindStudent

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin student create")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.users.create(ctx, tx, &student.User, password); err != nil {
		return err
	}

	const query = `INSERT INTO students (id, ` + studentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err = tx.ExecContext(ctx, query,
		student.ID,
		student.ReferralReason,
		student.Program,
		student.Cohort,
		student.Phone,
		student.Street,
		student.DoorNumber,
		student.BirthDate,
		student.PhotoRef,
		student.HealthSystem,
		student.GeneralComments,
		student.HealthStatus,
		student.ConfidentialNotes,
	); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit student create")
	}
	return nil
}

// FindByID delegates the shared columns to the user repository, checks the
// kind discriminator, then merges the specialization row. A staff row
// queried through this repository yields not-found.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Kind != models.KindStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}

	student := &models.Student{User: *user}
	row.mergeInto(student)
	return student, nil
}

// FindAll returns every ACTIVE student, loading each through FindByID.
func (r *StudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT u.id FROM users u JOIN students s ON s.id = u.id WHERE u.kind = 'STUDENT' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query)
}

// FindByProgram filters ACTIVE students by academic program.
func (r *StudentRepository) FindByProgram(ctx context.Context, program string) ([]models.Student, error) {
	const query = `SELECT u.id FROM users u JOIN students s ON s.id = u.id WHERE s.program = $1 AND u.kind = 'STUDENT' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query, program)
}

// FindByCohort filters ACTIVE students by cohort.
func (r *StudentRepository) FindByCohort(ctx context.Context, cohort string) ([]models.Student, error) {
	const query = `SELECT u.id FROM users u JOIN students s ON s.id = u.id WHERE s.cohort = $1 AND u.kind = 'STUDENT' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query, cohort)
}

// FindByHealthSystem filters ACTIVE students by health-system affiliation.
func (r *StudentRepository) FindByHealthSystem(ctx context.Context, healthSystem string) ([]models.Student, error) {
	const query = `SELECT u.id FROM users u JOIN students s ON s.id = u.id WHERE s.health_system = $1 AND u.kind = 'STUDENT' AND u.status = 'ACTIVE' ORDER BY u.id`
	return r.findByIDs(ctx, query, healthSystem)
}

func (r *StudentRepository) findByIDs(ctx context.Context, query string, args ...interface{}) ([]models.Student, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list student ids: %w", err)
	}

	students := []models.Student{}
	for _, id := range ids {
		student, err := r.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		students = append(students, *student)
	}
	return students, nil
}

// Update replaces the base row and the specialization row under one
// transaction.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "begin student update")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.users.update(ctx, tx, &student.User); err != nil {
		return err
	}

	const query = `UPDATE students SET referral_reason = $2, program = $3, cohort = $4, phone = $5, street = $6, door_number = $7, birth_date = $8, photo_ref = $9, health_system = $10, general_comments = $11, health_status = $12, confidential_notes = $13 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query,
		student.ID,
		student.ReferralReason,
		student.Program,
		student.Cohort,
		student.Phone,
		student.Street,
		student.DoorNumber,
		student.BirthDate,
		student.PhotoRef,
		student.HealthSystem,
		student.GeneralComments,
		student.HealthStatus,
		student.ConfidentialNotes,
	); err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "commit student update")
	}
	return nil
}

// UpdatePhone changes only the contact phone.
func (r *StudentRepository) UpdatePhone(ctx context.Context, id int64, phone string) error {
	const query = `UPDATE students SET phone = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, phone); err != nil {
		return fmt.Errorf("update student phone: %w", err)
	}
	return nil
}

// Delete is always logical and leaves the specialization row in place as
// a tombstone.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return r.users.DeleteLogical(ctx, id)
}

func (row *studentRow) mergeInto(student *models.Student) {
	student.ReferralReason = row.ReferralReason
	student.Program = row.Program
	student.Cohort = row.Cohort
	student.Phone = row.Phone
	student.Street = row.Street
	student.DoorNumber = row.DoorNumber
	if row.BirthDate.Valid {
		student.BirthDate = row.BirthDate.Time
	}
	student.PhotoRef = row.PhotoRef
	student.HealthSystem = row.HealthSystem
	student.GeneralComments = row.GeneralComments
	student.HealthStatus = row.HealthStatus
	student.ConfidentialNotes = row.ConfidentialNotes
}
