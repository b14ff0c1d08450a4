package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

// CreateUser persists a new account. Emails are unique case-insensitively.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: email is required", storage.ErrInvalid)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, name, phone, password_hash, reset_code, reset_code_expiry, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.Name, user.Phone, user.PasswordHash,
		user.ResetCode, formatExpiry(user.ResetCodeExpiry), formatTime(user.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = models.UserID(id)
	return nil
}

// GetUserByEmail retrieves an account by email, case-insensitively.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	var expiry, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, phone, password_hash, reset_code, reset_code_expiry, created_at
		FROM users WHERE email = ? COLLATE NOCASE`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.PasswordHash, &u.ResetCode, &expiry, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.ResetCodeExpiry = parseExpiry(expiry)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// UpdateUser replaces an existing account record.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, name = ?, phone = ?, password_hash = ?, reset_code = ?, reset_code_expiry = ?
		WHERE id = ?`,
		user.Email, user.Name, user.Phone, user.PasswordHash,
		user.ResetCode, formatExpiry(user.ResetCodeExpiry), user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, storage.ErrNotFound)
	}
	return nil
}

// GetProfile returns the owner profile, or ErrNotFound if never saved.
func (s *SQLiteStore) GetProfile(ctx context.Context) (*models.Profile, error) {
	p := &models.Profile{}
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT name, phone, avatar, bio, created_at, updated_at FROM profile WHERE id = 1",
	).Scan(&p.Name, &p.Phone, &p.Avatar, &p.Bio, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// SaveProfile creates or updates the owner profile, preserving CreatedAt.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	now := time.Now().UTC()
	existing, err := s.GetProfile(ctx)
	if err == nil {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, phone, avatar, bio, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, phone = excluded.phone, avatar = excluded.avatar,
			bio = excluded.bio, updated_at = excluded.updated_at`,
		profile.Name, profile.Phone, profile.Avatar, profile.Bio,
		formatTime(profile.CreatedAt), formatTime(profile.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Reset code expiry may be unset; the empty string marks the zero time.
func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatTime(t)
}

func parseExpiry(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	return parseTime(s)
}
