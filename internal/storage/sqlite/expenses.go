package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

// AddExpense validates and persists an expense, assigning ID and Date.
// All referenced PersonIDs must exist; SplitWith must be non-empty; the amount
// and all itemized shares must be non-negative.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", storage.ErrInvalid)
	}
	if len(expense.SplitWith) == 0 {
		return fmt.Errorf("%w: splitWith must not be empty", storage.ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := personExists(ctx, tx, expense.PaidBy, "paidBy"); err != nil {
		return err
	}
	for _, id := range expense.SplitWith {
		if err := personExists(ctx, tx, id, "splitWith"); err != nil {
			return err
		}
	}
	for id, amount := range expense.ItemizedByPerson {
		if err := personExists(ctx, tx, id, "itemizedByPerson"); err != nil {
			return err
		}
		if amount < 0 {
			return fmt.Errorf("%w: itemized share for person %d must not be negative", storage.ErrInvalid, id)
		}
	}

	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (description, amount, paid_by, date, is_settlement, transfer_id,
		                      is_group_expense, group_id, subtotal, tax, tip, amount_per_person)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.Description, expense.Amount, expense.PaidBy, formatTime(expense.Date),
		boolToInt(expense.IsSettlement), expense.TransferID,
		boolToInt(expense.IsGroupExpense), expense.GroupID,
		expense.Subtotal, expense.Tax, expense.Tip, expense.AmountPerPerson,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get expense id: %w", err)
	}
	expense.ID = models.ExpenseID(id)

	for i, pid := range expense.SplitWith {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, person_id, position) VALUES (?, ?, ?)",
			expense.ID, pid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	for i, item := range expense.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_items (expense_id, position, description) VALUES (?, ?, ?)",
			expense.ID, i, item,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	for pid, amount := range expense.ItemizedByPerson {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, person_id, amount) VALUES (?, ?, ?)",
			expense.ID, pid, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns all expenses ordered by id, including participants,
// items, and itemized shares.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, paid_by, date, is_settlement, transfer_id,
		       is_group_expense, group_id, subtotal, tax, tip, amount_per_person
		FROM expenses ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var date string
		var isSettlement, isGroupExpense int
		err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PaidBy, &date,
			&isSettlement, &e.TransferID, &isGroupExpense, &e.GroupID,
			&e.Subtotal, &e.Tax, &e.Tip, &e.AmountPerPerson)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date = parseTime(date)
		e.IsSettlement = isSettlement != 0
		e.IsGroupExpense = isGroupExpense != 0
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if err := s.loadExpenseDetails(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) loadExpenseDetails(ctx context.Context, e *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid models.PersonID
		if err := rows.Scan(&pid); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		e.SplitWith = append(e.SplitWith, pid)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT description FROM expense_items WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item string
		if err := itemRows.Scan(&item); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		e.Items = append(e.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT person_id, amount FROM expense_shares WHERE expense_id = ?",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()
	for shareRows.Next() {
		var pid models.PersonID
		var amount float64
		if err := shareRows.Scan(&pid, &amount); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if e.ItemizedByPerson == nil {
			e.ItemizedByPerson = make(map[models.PersonID]float64)
		}
		e.ItemizedByPerson[pid] = amount
	}
	if err := shareRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense by ID. The delete is idempotent; child
// rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id models.ExpenseID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func personExists(ctx context.Context, q querier, id models.PersonID, field string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM people WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s references unknown person %d", storage.ErrInvalid, field, id)
	}
	if err != nil {
		return fmt.Errorf("failed to look up person: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
