package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

// Ensure PasswordAuthenticator implements Authenticator
var _ Authenticator = (*PasswordAuthenticator)(nil)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator backed
// by the given store.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, phone, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hashedPassword),
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartPasswordReset issues a short-lived reset code for the account and
// returns it. Delivery (SMS, email) is the caller's concern.
func (a *PasswordAuthenticator) StartPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	code, err := generateResetCode()
	if err != nil {
		return "", err
	}
	user.ResetCode = code
	user.ResetCodeExpiry = time.Now().Add(resetCodeTTL)

	if err := a.store.UpdateUser(ctx, user); err != nil {
		return "", fmt.Errorf("failed to save reset code: %w", err)
	}
	return code, nil
}

// CompletePasswordReset verifies the reset code and sets a new password.
// Codes are single-use and expire after resetCodeTTL.
func (a *PasswordAuthenticator) CompletePasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := a.ValidateCredential(newPassword); err != nil {
		return err
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return ErrInvalidResetCode
	}
	if user.ResetCode == "" || user.ResetCode != code {
		return ErrInvalidResetCode
	}
	if time.Now().After(user.ResetCodeExpiry) {
		return ErrInvalidResetCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.ResetCode = ""
	user.ResetCodeExpiry = time.Time{}

	if err := a.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
