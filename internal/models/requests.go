package models

import "time"

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	FirstName         string    `json:"first_name" validate:"required"`
	LastName          string    `json:"last_name" validate:"required"`
	Email             string    `json:"email" validate:"required,email"`
	Password          string    `json:"password" validate:"required,min=8"`
	DocumentID        string    `json:"document_id" validate:"required"`
	ReferralReason    string    `json:"referral_reason"`
	Program           string    `json:"program" validate:"required"`
	Cohort            string    `json:"cohort"`
	Phone             string    `json:"phone"`
	Street            string    `json:"street"`
	DoorNumber        string    `json:"door_number"`
	BirthDate         time.Time `json:"birth_date"`
	PhotoRef          string    `json:"photo_ref"`
	HealthSystem      string    `json:"health_system"`
	GeneralComments   string    `json:"general_comments"`
	HealthStatus      string    `json:"health_status"`
	ConfidentialNotes []string  `json:"confidential_notes"`
}

// UpdateStudentRequest replaces the mutable student fields.
type UpdateStudentRequest struct {
	FirstName         string    `json:"first_name" validate:"required"`
	LastName          string    `json:"last_name" validate:"required"`
	Email             string    `json:"email" validate:"required,email"`
	DocumentID        string    `json:"document_id" validate:"required"`
	ReferralReason    string    `json:"referral_reason"`
	Program           string    `json:"program" validate:"required"`
	Cohort            string    `json:"cohort"`
	Phone             string    `json:"phone"`
	Street            string    `json:"street"`
	DoorNumber        string    `json:"door_number"`
	BirthDate         time.Time `json:"birth_date"`
	PhotoRef          string    `json:"photo_ref"`
	HealthSystem      string    `json:"health_system"`
	GeneralComments   string    `json:"general_comments"`
	HealthStatus      string    `json:"health_status"`
	ConfidentialNotes []string  `json:"confidential_notes"`
}

// UpdatePhoneRequest changes only the student's contact phone.
type UpdatePhoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// CreateStaffRequest is the payload for registering a staff member.
type CreateStaffRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	DocumentID string `json:"document_id" validate:"required"`
	RoleID     int64  `json:"role_id" validate:"required,gt=0"`
}

// UpdateStaffRequest replaces the mutable staff fields.
type UpdateStaffRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	DocumentID string `json:"document_id" validate:"required"`
	RoleID     int64  `json:"role_id" validate:"required,gt=0"`
}

// AssignRoleRequest points a staff member at a different role.
type AssignRoleRequest struct {
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}
