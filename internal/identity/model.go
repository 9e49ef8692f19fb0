package identity

import "time"

// User represents a registered wallet owner.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser holds the fields persisted for a new user.
type NewUser struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
}

// SignUpInput is the validated payload for registering a user.
type SignUpInput struct {
	Email     string `json:"email" validate:"required,email,max=50"`
	Password  string `json:"password" validate:"required,strongpassword"`
	FirstName string `json:"first_name" validate:"omitempty,min=4,max=25"`
	LastName  string `json:"last_name" validate:"omitempty,min=4,max=25"`
}

// SignInInput is the validated payload for authenticating a user.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
