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

// AddGroup validates member references and persists the group.
func (s *SQLiteStore) AddGroup(ctx context.Context, group *models.Group) error {
	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("%w: group name is required", storage.ErrInvalid)
	}
	if len(group.Members) == 0 {
		return fmt.Errorf("%w: group must have members", storage.ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range group.Members {
		if err := personExists(ctx, tx, id, "members"); err != nil {
			return err
		}
	}

	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO groups (name, total_amount, total_per_person, created_at) VALUES (?, ?, ?, ?)",
		group.Name, group.TotalAmount, group.TotalPerPerson, formatTime(group.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get group id: %w", err)
	}
	group.ID = models.GroupID(id)

	for i, pid := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			group.ID, pid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its member list.
func (s *SQLiteStore) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	g := &models.Group{}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, total_amount, total_per_person, created_at FROM groups WHERE id = ?",
		id,
	).Scan(&g.ID, &g.Name, &g.TotalAmount, &g.TotalPerPerson, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	g.CreatedAt = parseTime(createdAt)

	if err := s.loadGroupMembers(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGroups returns all groups ordered by id.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, total_amount, total_per_person, created_at FROM groups ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &g.TotalAmount, &g.TotalPerPerson, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for i := range groups {
		if err := s.loadGroupMembers(ctx, &groups[i]); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *SQLiteStore) loadGroupMembers(ctx context.Context, g *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM group_members WHERE group_id = ? ORDER BY position",
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid models.PersonID
		if err := rows.Scan(&pid); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		g.Members = append(g.Members, pid)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// UpdateGroup replaces an existing group record and its member list.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET name = ?, total_amount = ?, total_per_person = ? WHERE id = ?",
		group.Name, group.TotalAmount, group.TotalPerPerson, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %d: %w", group.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	for i, pid := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			group.ID, pid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes a group by ID. Idempotent; group expenses remain in the
// ledger and keep contributing to balances.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id models.GroupID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
