// Package service implements the application logic on top of storage: the
// shared ledger, balance computation with caching, settlements, and group
// expense expansion.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/calculator"
	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

// LedgerService owns the expense ledger, people directory, and the balance
// engine. All balance reads go through one code path so every surface reports
// the same numbers.
type LedgerService struct {
	store storage.Store
	cache cache.Cache
}

// NewLedgerService creates a LedgerService with the given storage backend and
// balance cache.
func NewLedgerService(store storage.Store, c cache.Cache) *LedgerService {
	return &LedgerService{store: store, cache: c}
}

// AddExpense persists an expense and invalidates the balance cache.
func (s *LedgerService) AddExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.store.AddExpense(ctx, expense); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	slog.Info("expense added",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"paid_by", expense.PaidBy,
		"participants", len(expense.SplitWith),
	)
	return nil
}

// AddExpenseByNames records an expense with people referenced by name,
// creating implicit person records as needed. Used by the assistant, where
// the conversation mentions names rather than ids.
func (s *LedgerService) AddExpenseByNames(ctx context.Context, description string, amount float64, paidBy string, splitWith []string) (*models.Expense, error) {
	payer, err := s.store.EnsurePerson(ctx, paidBy)
	if err != nil {
		return nil, err
	}

	participants := make([]models.PersonID, 0, len(splitWith))
	for _, name := range splitWith {
		p, err := s.store.EnsurePerson(ctx, name)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p.ID)
	}

	expense := &models.Expense{
		Description: description,
		Amount:      amount,
		PaidBy:      payer.ID,
		SplitWith:   participants,
	}
	if err := s.AddExpense(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns all expenses in insertion order.
func (s *LedgerService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.store.ListExpenses(ctx)
}

// RecentExpenses returns up to limit of the most recently added expenses,
// newest first.
func (s *LedgerService) RecentExpenses(ctx context.Context, limit int) ([]models.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Expense, 0, limit)
	for i := len(expenses) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, expenses[i])
	}
	return out, nil
}

// DeleteExpense removes an expense and invalidates the balance cache.
// Deleting a nonexistent id is a no-op.
func (s *LedgerService) DeleteExpense(ctx context.Context, id models.ExpenseID) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Balances returns the full pairwise debt matrix, served from cache when
// fresh.
func (s *LedgerService) Balances(ctx context.Context) (calculator.Matrix, error) {
	if m, ok := s.cache.GetMatrix(ctx); ok {
		return m, nil
	}

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	m := calculator.ComputeBalances(people, expenses)
	s.cache.SetMatrix(ctx, m)
	return m, nil
}

// SimplifiedBalances returns the net debt per unordered pair.
func (s *LedgerService) SimplifiedBalances(ctx context.Context) ([]calculator.DebtEdge, error) {
	m, err := s.Balances(ctx)
	if err != nil {
		return nil, err
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Simplify(m, people), nil
}

// Summaries returns per-person totals derived from the same matrix the other
// balance surfaces use.
func (s *LedgerService) Summaries(ctx context.Context) ([]calculator.PersonSummary, error) {
	m, err := s.Balances(ctx)
	if err != nil {
		return nil, err
	}
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Summaries(m, people), nil
}

// Settle records a payment of amount from one person to another. The payment
// is stored as two settlement expenses sharing a transfer id: a marker on the
// payer's side and an offset that reduces the pair's net by exactly amount.
// Balances recompute from the ledger, so no stored balance is mutated.
func (s *LedgerService) Settle(ctx context.Context, from, to models.PersonID, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: settlement amount must be positive", storage.ErrInvalid)
	}
	if from == to {
		return fmt.Errorf("%w: cannot settle with yourself", storage.ErrInvalid)
	}

	payer, err := s.store.GetPerson(ctx, from)
	if err != nil {
		return err
	}
	payee, err := s.store.GetPerson(ctx, to)
	if err != nil {
		return err
	}

	transferID := uuid.New().String()

	marker := &models.Expense{
		Description:  fmt.Sprintf("Settlement: %s paid %s", payer.Name, payee.Name),
		Amount:       amount,
		PaidBy:       from,
		SplitWith:    []models.PersonID{from},
		IsSettlement: true,
		TransferID:   transferID,
	}
	offset := &models.Expense{
		Description:  fmt.Sprintf("Settlement received from %s", payer.Name),
		Amount:       amount,
		PaidBy:       from,
		SplitWith:    []models.PersonID{to},
		IsSettlement: true,
		TransferID:   transferID,
	}

	if err := s.store.AddExpense(ctx, marker); err != nil {
		return err
	}
	if err := s.store.AddExpense(ctx, offset); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	slog.Info("settlement recorded",
		"from", from,
		"to", to,
		"amount", amount,
		"transfer_id", transferID,
	)
	return nil
}

// AddPerson explicitly registers a person and reports how many historical
// expenses were reconciled to them.
func (s *LedgerService) AddPerson(ctx context.Context, name, phone string) (*models.Person, int, error) {
	person, reconciled, err := s.store.AddPerson(ctx, name, phone)
	if err != nil {
		return nil, 0, err
	}
	s.cache.Invalidate(ctx)
	if reconciled > 0 {
		slog.Info("person registered with history",
			"person_id", person.ID,
			"name", person.Name,
			"reconciled_expenses", reconciled,
		)
	}
	return person, reconciled, nil
}

// ResolvePerson returns the person for a name, creating an implicit record if
// needed.
func (s *LedgerService) ResolvePerson(ctx context.Context, name string) (*models.Person, error) {
	return s.store.EnsurePerson(ctx, name)
}

// GetPerson retrieves a person by id.
func (s *LedgerService) GetPerson(ctx context.Context, id models.PersonID) (*models.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// ListPeople returns all people.
func (s *LedgerService) ListPeople(ctx context.Context) ([]models.Person, error) {
	return s.store.ListPeople(ctx)
}

// DeletePerson removes a person that no expense or group references.
func (s *LedgerService) DeletePerson(ctx context.Context, id models.PersonID) error {
	if err := s.store.DeletePerson(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
