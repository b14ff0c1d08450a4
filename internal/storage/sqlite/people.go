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

func scanPerson(row interface{ Scan(...any) error }) (*models.Person, error) {
	var p models.Person
	var registered int
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &registered, &createdAt); err != nil {
		return nil, err
	}
	p.Registered = registered != 0
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// AddPerson explicitly registers a person. The add is idempotent: if the name
// already exists case-insensitively, the existing record is returned and only
// the phone is updated. Registering a person that so far existed only
// implicitly adopts the given casing as canonical and reports how many
// historical expenses reference them.
func (s *SQLiteStore) AddPerson(ctx context.Context, name, phone string) (*models.Person, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, fmt.Errorf("%w: name is required", storage.ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanPerson(tx.QueryRowContext(ctx,
		"SELECT id, name, phone, registered, created_at FROM people WHERE name = ? COLLATE NOCASE",
		name,
	))
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to look up person: %w", err)
	}

	if existing != nil {
		reconciled := 0
		if !existing.Registered {
			reconciled, err = countExpenseReferences(ctx, tx, existing.ID)
			if err != nil {
				return nil, 0, err
			}
			existing.Name = name
			existing.Registered = true
		}
		if phone != "" {
			existing.Phone = phone
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE people SET name = ?, phone = ?, registered = 1 WHERE id = ?",
			existing.Name, existing.Phone, existing.ID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to update person: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return existing, reconciled, nil
	}

	person := &models.Person{
		Name:       name,
		Phone:      phone,
		Registered: true,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO people (name, phone, registered, created_at) VALUES (?, ?, 1, ?)",
		person.Name, person.Phone, formatTime(person.CreatedAt),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get person id: %w", err)
	}
	person.ID = models.PersonID(id)

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return person, 0, nil
}

// EnsurePerson returns the person with the given name, creating an implicit
// unregistered record if none exists.
func (s *SQLiteStore) EnsurePerson(ctx context.Context, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", storage.ErrInvalid)
	}

	existing, err := scanPerson(s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, registered, created_at FROM people WHERE name = ? COLLATE NOCASE",
		name,
	))
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up person: %w", err)
	}

	person := &models.Person{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO people (name, phone, registered, created_at) VALUES (?, '', 0, ?)",
		person.Name, formatTime(person.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get person id: %w", err)
	}
	person.ID = models.PersonID(id)
	return person, nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, id models.PersonID) (*models.Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, registered, created_at FROM people WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// ListPeople returns all people ordered by id.
func (s *SQLiteStore) ListPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, phone, registered, created_at FROM people ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

// DeletePerson removes a person. Deleting a person still referenced by an
// expense or group fails with ErrPersonInUse. Nonexistent ids are a no-op.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id models.PersonID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	refs, err := countExpenseReferences(ctx, tx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("person %d: %w", id, storage.ErrPersonInUse)
	}

	var memberships int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM group_members WHERE person_id = ?", id,
	).Scan(&memberships)
	if err != nil {
		return fmt.Errorf("failed to count group memberships: %w", err)
	}
	if memberships > 0 {
		return fmt.Errorf("person %d: %w", id, storage.ErrPersonInUse)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// countExpenseReferences counts expenses mentioning the person as payer,
// participant, or itemized-share holder.
func countExpenseReferences(ctx context.Context, q querier, id models.PersonID) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expenses e
		WHERE e.paid_by = ?
		   OR EXISTS (SELECT 1 FROM expense_participants p WHERE p.expense_id = e.id AND p.person_id = ?)
		   OR EXISTS (SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.person_id = ?)`,
		id, id, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expense references: %w", err)
	}
	return count, nil
}
