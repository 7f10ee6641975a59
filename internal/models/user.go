package models

import (
	"time"

	"github.com/lib/pq"
)

// UserStatus drives row visibility: deletes are logical and flip the
// status to INACTIVE, the row is never removed.
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// UserKind is the discriminator selecting the specialization table for a
// base user row. It is immutable after creation.
type UserKind string

const (
	KindStudent UserKind = "STUDENT"
	KindStaff   UserKind = "STAFF"
)

// User holds the columns shared by both hierarchy variants.
type User struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DocumentID   string     `db:"document_id" json:"document_id"`
	Status       UserStatus `db:"status" json:"status"`
	Kind         UserKind   `db:"kind" json:"kind"`
}

// UserWithRole is the findByEmail projection: the base row plus the staff
// role columns attached opportunistically through a left join.
type UserWithRole struct {
	User
	RoleID   *int64  `db:"role_id" json:"role_id,omitempty"`
	RoleName *string `db:"role_name" json:"role_name,omitempty"`
}

// Student specializes User with the students table payload.
type Student struct {
	User
	ReferralReason    string         `db:"referral_reason" json:"referral_reason"`
	Program           string         `db:"program" json:"program"`
	Cohort            string         `db:"cohort" json:"cohort"`
	Phone             string         `db:"phone" json:"phone"`
	Street            string         `db:"street" json:"street"`
	DoorNumber        string         `db:"door_number" json:"door_number"`
	BirthDate         time.Time      `db:"birth_date" json:"birth_date"`
	PhotoRef          string         `db:"photo_ref" json:"photo_ref"`
	HealthSystem      string         `db:"health_system" json:"health_system"`
	GeneralComments   string         `db:"general_comments" json:"general_comments"`
	HealthStatus      string         `db:"health_status" json:"health_status"`
	ConfidentialNotes pq.StringArray `db:"confidential_notes" json:"confidential_notes"`
}

// Staff specializes User with a single associated role. The column is
// nullable but business rules require a role at save time.
type Staff struct {
	User
	Role *Role `db:"-" json:"role,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
