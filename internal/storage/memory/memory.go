// Package memory provides the default in-memory implementation of the
// storage.Store interface. All entities live for the process lifetime only.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore holds all collections behind a single RWMutex. Mutations take
// the write lock, so the balance engine's read-then-aggregate pattern is safe.
type MemoryStore struct {
	mu sync.RWMutex

	people   []models.Person
	expenses []models.Expense
	groups   []models.Group
	users    []models.User
	profile  *models.Profile

	nextPersonID  models.PersonID
	nextExpenseID models.ExpenseID
	nextGroupID   models.GroupID
	nextUserID    models.UserID
}

// New creates an empty MemoryStore. Identifier sequences start at 1 and never
// reuse values, even after deletion.
func New() *MemoryStore {
	return &MemoryStore{
		nextPersonID:  1,
		nextExpenseID: 1,
		nextGroupID:   1,
		nextUserID:    1,
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// findPersonByName does a case-insensitive lookup. Caller must hold the lock.
func (s *MemoryStore) findPersonByName(name string) *models.Person {
	for i := range s.people {
		if strings.EqualFold(s.people[i].Name, name) {
			return &s.people[i]
		}
	}
	return nil
}

// findPersonByID returns the person record or nil. Caller must hold the lock.
func (s *MemoryStore) findPersonByID(id models.PersonID) *models.Person {
	for i := range s.people {
		if s.people[i].ID == id {
			return &s.people[i]
		}
	}
	return nil
}

// countExpenseReferences counts expenses mentioning the person. Caller must
// hold the lock.
func (s *MemoryStore) countExpenseReferences(id models.PersonID) int {
	count := 0
	for i := range s.expenses {
		if s.expenses[i].References(id) {
			count++
		}
	}
	return count
}

// AddPerson explicitly registers a person. The add is idempotent: if the name
// already exists case-insensitively, the existing record is returned and only
// the phone is updated. Registering a person that so far existed only
// implicitly adopts the given casing as canonical and reports how many
// historical expenses reference them.
func (s *MemoryStore) AddPerson(ctx context.Context, name, phone string) (*models.Person, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, fmt.Errorf("%w: name is required", storage.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.findPersonByName(name); p != nil {
		reconciled := 0
		if !p.Registered {
			p.Name = name
			p.Registered = true
			reconciled = s.countExpenseReferences(p.ID)
		}
		if phone != "" {
			p.Phone = phone
		}
		out := *p
		return &out, reconciled, nil
	}

	person := models.Person{
		ID:         s.nextPersonID,
		Name:       name,
		Phone:      phone,
		Registered: true,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextPersonID++
	s.people = append(s.people, person)

	out := person
	return &out, 0, nil
}

// EnsurePerson returns the person with the given name, creating an implicit
// unregistered record if none exists. The ledger can therefore always hold
// valid PersonIDs, even for people mentioned only in expense text.
func (s *MemoryStore) EnsurePerson(ctx context.Context, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", storage.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p := s.findPersonByName(name); p != nil {
		out := *p
		return &out, nil
	}

	person := models.Person{
		ID:        s.nextPersonID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.nextPersonID++
	s.people = append(s.people, person)

	out := person
	return &out, nil
}

// GetPerson retrieves a person by ID.
func (s *MemoryStore) GetPerson(ctx context.Context, id models.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findPersonByID(id)
	if p == nil {
		return nil, fmt.Errorf("person %d: %w", id, storage.ErrNotFound)
	}
	out := *p
	return &out, nil
}

// ListPeople returns all people in insertion order.
func (s *MemoryStore) ListPeople(ctx context.Context) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Person, len(s.people))
	copy(out, s.people)
	return out, nil
}

// DeletePerson removes a person. Deleting a person still referenced by an
// expense or group fails, so balances never see dangling PersonIDs. Deleting
// a nonexistent ID is a no-op.
func (s *MemoryStore) DeletePerson(ctx context.Context, id models.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findPersonByID(id) == nil {
		return nil
	}
	for i := range s.expenses {
		if s.expenses[i].References(id) {
			return fmt.Errorf("person %d: %w", id, storage.ErrPersonInUse)
		}
	}
	for i := range s.groups {
		if s.groups[i].HasMember(id) {
			return fmt.Errorf("person %d: %w", id, storage.ErrPersonInUse)
		}
	}

	kept := s.people[:0]
	for _, p := range s.people {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.people = kept
	return nil
}

// validateExpense checks the invariants the balance engine relies on. Caller
// must hold the lock.
func (s *MemoryStore) validateExpense(e *models.Expense) error {
	if e.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", storage.ErrInvalid)
	}
	if len(e.SplitWith) == 0 {
		return fmt.Errorf("%w: splitWith must not be empty", storage.ErrInvalid)
	}
	if s.findPersonByID(e.PaidBy) == nil {
		return fmt.Errorf("%w: paidBy references unknown person %d", storage.ErrInvalid, e.PaidBy)
	}
	for _, id := range e.SplitWith {
		if s.findPersonByID(id) == nil {
			return fmt.Errorf("%w: splitWith references unknown person %d", storage.ErrInvalid, id)
		}
	}
	for id, amount := range e.ItemizedByPerson {
		if s.findPersonByID(id) == nil {
			return fmt.Errorf("%w: itemizedByPerson references unknown person %d", storage.ErrInvalid, id)
		}
		if amount < 0 {
			return fmt.Errorf("%w: itemized share for person %d must not be negative", storage.ErrInvalid, id)
		}
	}
	return nil
}

// AddExpense validates and persists an expense, assigning ID and Date.
func (s *MemoryStore) AddExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateExpense(expense); err != nil {
		return err
	}

	expense.ID = s.nextExpenseID
	s.nextExpenseID++
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}

	s.expenses = append(s.expenses, cloneExpense(*expense))
	return nil
}

// ListExpenses returns all expenses in insertion order.
func (s *MemoryStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, cloneExpense(e))
	}
	return out, nil
}

// DeleteExpense removes an expense by ID. The delete is idempotent and has no
// side effects beyond removal.
func (s *MemoryStore) DeleteExpense(ctx context.Context, id models.ExpenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.expenses[:0]
	for _, e := range s.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

// AddGroup validates member references and persists the group.
func (s *MemoryStore) AddGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(group.Name) == "" {
		return fmt.Errorf("%w: group name is required", storage.ErrInvalid)
	}
	if len(group.Members) == 0 {
		return fmt.Errorf("%w: group must have members", storage.ErrInvalid)
	}
	for _, id := range group.Members {
		if s.findPersonByID(id) == nil {
			return fmt.Errorf("%w: member references unknown person %d", storage.ErrInvalid, id)
		}
	}

	group.ID = s.nextGroupID
	s.nextGroupID++
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	s.groups = append(s.groups, cloneGroup(*group))
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MemoryStore) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.groups {
		if s.groups[i].ID == id {
			out := cloneGroup(s.groups[i])
			return &out, nil
		}
	}
	return nil, fmt.Errorf("group %d: %w", id, storage.ErrNotFound)
}

// ListGroups returns all groups in insertion order.
func (s *MemoryStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, cloneGroup(g))
	}
	return out, nil
}

// UpdateGroup replaces an existing group record.
func (s *MemoryStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.groups {
		if s.groups[i].ID == group.ID {
			s.groups[i] = cloneGroup(*group)
			return nil
		}
	}
	return fmt.Errorf("group %d: %w", group.ID, storage.ErrNotFound)
}

// DeleteGroup removes a group by ID. Idempotent; group expenses remain in the
// ledger and keep contributing to balances.
func (s *MemoryStore) DeleteGroup(ctx context.Context, id models.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.groups[:0]
	for _, g := range s.groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.groups = kept
	return nil
}

// CreateUser persists a new account. Emails are unique case-insensitively.
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: email is required", storage.ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	s.users = append(s.users, *user)
	return nil
}

// GetUserByEmail retrieves an account by email, case-insensitively.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

// UpdateUser replaces an existing account record.
func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = *user
			return nil
		}
	}
	return fmt.Errorf("user %d: %w", user.ID, storage.ErrNotFound)
}

// GetProfile returns the owner profile, or ErrNotFound if never saved.
func (s *MemoryStore) GetProfile(ctx context.Context) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil, fmt.Errorf("profile: %w", storage.ErrNotFound)
	}
	out := *s.profile
	return &out, nil
}

// SaveProfile creates or updates the owner profile, preserving CreatedAt.
func (s *MemoryStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if s.profile != nil {
		profile.CreatedAt = s.profile.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	out := *profile
	s.profile = &out
	return nil
}

func cloneExpense(e models.Expense) models.Expense {
	out := e
	if e.SplitWith != nil {
		out.SplitWith = make([]models.PersonID, len(e.SplitWith))
		copy(out.SplitWith, e.SplitWith)
	}
	if e.Items != nil {
		out.Items = make([]string, len(e.Items))
		copy(out.Items, e.Items)
	}
	if e.ItemizedByPerson != nil {
		out.ItemizedByPerson = make(map[models.PersonID]float64, len(e.ItemizedByPerson))
		for k, v := range e.ItemizedByPerson {
			out.ItemizedByPerson[k] = v
		}
	}
	return out
}

func cloneGroup(g models.Group) models.Group {
	out := g
	if g.Members != nil {
		out.Members = make([]models.PersonID, len(g.Members))
		copy(out.Members, g.Members)
	}
	return out
}
