package models

import "time"

// Account roles. Checks are exact matches: an admin does not implicitly pass
// a user-only check, and every route names the roles it accepts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a row in the users table.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"-"` // scrypt hash, never serialized
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUser is the data needed to insert an account. Password must already be
// hashed by the caller.
type NewUser struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Role        string
}

// UserUpdate is a partial account update; nil fields are left unchanged.
// Password, when set, must already be hashed.
type UserUpdate struct {
	Username    *string
	Password    *string
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Role        *string
}

// RegisterRequest is the JSON body for POST /api/register.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginRequest is the JSON body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is the JSON body for the admin POST /api/users.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserRequest is the JSON body for the admin PUT /api/users/{id}.
// Password is plaintext here; it is hashed before it reaches the store.
type UpdateUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateProfileRequest is the JSON body for PUT /api/profile. Unlike the
// admin update, it cannot touch username or role.
type UpdateProfileRequest struct {
	Password    *string `json:"password" validate:"omitempty,min=6"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
}
