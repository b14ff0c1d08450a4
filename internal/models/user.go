package models

import "time"

// UserID identifies an account in the account directory.
type UserID int64

// User is a registered account. Accounts exist so the app owner can log in;
// they are distinct from Person records, which identify expense participants.
type User struct {
	ID    UserID `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`

	// PasswordHash is a bcrypt hash, never the plaintext password.
	PasswordHash string `json:"-"`

	// ResetCode and ResetCodeExpiry hold a pending password-reset code.
	ResetCode       string    `json:"-"`
	ResetCodeExpiry time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the app owner's display profile.
type Profile struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
