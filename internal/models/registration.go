package models

import "time"

// Registration status values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Registration represents a row in the registrations table. UserID is nil
// for anonymous signups. RegistrationID is the human-facing code printed on
// tickets, distinct from the primary key.
type Registration struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	ParticipantType string    `json:"participantType"`
	Grade           string    `json:"grade"`
	Activities      []string  `json:"activities"`
	SpecialRequests string    `json:"specialRequests"`
	Status          string    `json:"status"`
	RegistrationID  string    `json:"registrationId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewRegistration is the data needed to insert a registration. The store
// assigns the id, registration code, and creation timestamp. An empty Status
// falls back to pending.
type NewRegistration struct {
	UserID          *int64
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	ParticipantType string
	Grade           string
	Activities      []string
	SpecialRequests string
	Status          string
}

// RegistrationUpdate is a partial registration update; nil fields are left
// unchanged. The registration code and owner are immutable.
type RegistrationUpdate struct {
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	Email           *string   `json:"email" validate:"omitempty,email"`
	PhoneNumber     *string   `json:"phoneNumber"`
	ParticipantType *string   `json:"participantType" validate:"omitempty,oneof=student teacher parent other"`
	Grade           *string   `json:"grade"`
	Activities      *[]string `json:"activities"`
	SpecialRequests *string   `json:"specialRequests"`
	Status          *string   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// RegistrationForm is the JSON body for the public POST /api/register-carnival.
type RegistrationForm struct {
	FirstName       string   `json:"firstName" validate:"required"`
	LastName        string   `json:"lastName" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	PhoneNumber     string   `json:"phoneNumber"`
	ParticipantType string   `json:"participantType" validate:"required,oneof=student teacher parent other"`
	Grade           string   `json:"grade"`
	Activities      []string `json:"activities"`
	SpecialRequests string   `json:"specialRequests"`
	AcceptTerms     bool     `json:"acceptTerms" validate:"required"`
}
