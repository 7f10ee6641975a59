package models

import (
	"time"

	"github.com/lib/pq"
)

// Channel records how a case reached the institution.
type Channel string

const (
	ChannelInPerson Channel = "IN_PERSON"
	ChannelPhone    Channel = "PHONE"
	ChannelEmail    Channel = "EMAIL"
	ChannelOther    Channel = "OTHER"
)

// CaseKind is the discriminator selecting the specialization table for a
// base case row. It is immutable after creation.
type CaseKind string

const (
	KindCommon   CaseKind = "COMMON"
	KindIncident CaseKind = "INCIDENT"
)

// CaseRecord holds the columns shared by both case variants. Category,
// Student and Creator carry the resolved relations; the *_ID fields are
// what is actually stored.
type CaseRecord struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Code            string    `db:"code" json:"code"`
	OccurredAt      time.Time `db:"occurred_at" json:"occurred_at"`
	Channel         Channel   `db:"channel" json:"channel"`
	Comment         string    `db:"comment" json:"comment"`
	Confidential    bool      `db:"confidential" json:"confidential"`
	CategoryID      int64     `db:"category_id" json:"category_id"`
	StudentID       int64     `db:"student_id" json:"student_id"`
	CreatorID       int64     `db:"creator_id" json:"creator_id"`
	Kind            CaseKind  `db:"kind" json:"kind"`
	CalendarEventID *string   `db:"calendar_event_id" json:"calendar_event_id,omitempty"`

	Category *Category `db:"-" json:"category,omitempty"`
	Student  *Student  `db:"-" json:"student,omitempty"`
	Creator  *Staff    `db:"-" json:"creator,omitempty"`
}

// CommonCase specializes CaseRecord with the routine-case payload.
type CommonCase struct {
	CaseRecord
	Motivation string `db:"motivation" json:"motivation"`
}

// Incident specializes CaseRecord with the confidential-incident payload.
// The reporter is a staff member distinct from the creator.
type Incident struct {
	CaseRecord
	Location        string         `db:"location" json:"location"`
	InvolvedParties pq.StringArray `db:"involved_parties" json:"involved_parties"`
	ReporterID      int64          `db:"reporter_id" json:"reporter_id"`
	Reporter        *Staff         `db:"-" json:"reporter,omitempty"`
}

// CreateCommonCaseRequest is the payload for opening a routine case.
type CreateCommonCaseRequest struct {
	Title      string    `json:"title" validate:"required,min=3,max=200"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
	Channel    Channel   `json:"channel" validate:"required,oneof=IN_PERSON PHONE EMAIL OTHER"`
	Comment    string    `json:"comment"`
	CategoryID int64     `json:"category_id" validate:"required,gt=0"`
	StudentID  int64     `json:"student_id" validate:"required,gt=0"`
	Motivation string    `json:"motivation" validate:"required"`
}

// CreateIncidentRequest is the payload for reporting an incident.
type CreateIncidentRequest struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	OccurredAt      time.Time `json:"occurred_at" validate:"required"`
	Channel         Channel   `json:"channel" validate:"required,oneof=IN_PERSON PHONE EMAIL OTHER"`
	Comment         string    `json:"comment"`
	CategoryID      int64     `json:"category_id" validate:"required,gt=0"`
	StudentID       int64     `json:"student_id" validate:"required,gt=0"`
	Location        string    `json:"location" validate:"required"`
	InvolvedParties []string  `json:"involved_parties"`
	ReporterID      int64     `json:"reporter_id" validate:"required,gt=0"`
}

// UpdateCommonCaseRequest replaces the mutable fields of a routine case.
type UpdateCommonCaseRequest struct {
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	OccurredAt   time.Time `json:"occurred_at" validate:"required"`
	Channel      Channel   `json:"channel" validate:"required,oneof=IN_PERSON PHONE EMAIL OTHER"`
	Comment      string    `json:"comment"`
	Confidential bool      `json:"confidential"`
	CategoryID   int64     `json:"category_id" validate:"required,gt=0"`
	StudentID    int64     `json:"student_id" validate:"required,gt=0"`
	Motivation   string    `json:"motivation" validate:"required"`
}

// UpdateIncidentRequest replaces the mutable fields of an incident. The
// reporter is fixed at creation time.
type UpdateIncidentRequest struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	OccurredAt      time.Time `json:"occurred_at" validate:"required"`
	Channel         Channel   `json:"channel" validate:"required,oneof=IN_PERSON PHONE EMAIL OTHER"`
	Comment         string    `json:"comment"`
	CategoryID      int64     `json:"category_id" validate:"required,gt=0"`
	StudentID       int64     `json:"student_id" validate:"required,gt=0"`
	Location        string    `json:"location" validate:"required"`
	InvolvedParties []string  `json:"involved_parties"`
}

// UpdateCaseCommentRequest updates the free-text comment of a case.
type UpdateCaseCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}
