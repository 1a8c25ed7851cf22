package user

import "time"

type User struct {
	ID           string    `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type UserSignup struct {
	Username        string `json:"username" validate:"required,alphanum,max=64"`
	Email           string `json:"email" validate:"required,email,max=128"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"eqfield=Password"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the public view of a user.
type Profile struct {
	Username  string    `json:"username"`
	Following bool      `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
}
