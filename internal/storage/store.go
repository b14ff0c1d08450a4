// Package storage provides abstractions for the ledger data store.
package storage

import (
	"context"
	"errors"

	"github.com/spender-app/spender/internal/models"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks a validation failure. Writes failing validation
	// must leave the store unchanged.
	ErrInvalid = errors.New("invalid input")

	// ErrDuplicate is returned when a uniqueness constraint would be
	// violated (e.g. registering an email twice).
	ErrDuplicate = errors.New("already exists")

	// ErrPersonInUse is returned when deleting a person that expenses or
	// groups still reference. The ledger never holds dangling PersonIDs.
	ErrPersonInUse = errors.New("person is still referenced")
)

// Store is the interface for ledger storage operations. This abstraction
// allows swapping backends (in-memory, SQLite) without changing the service
// layer.
//
// Implementations must serialize mutations: the balance engine iterates the
// full expense collection, so reads may run concurrently with each other but
// never with writes.
type Store interface {
	// AddPerson explicitly registers a person by name, case-insensitively
	// idempotent. When it registers a person that previously existed only
	// implicitly (created from expense text), it adopts the given casing
	// as canonical and returns the number of historical expenses that
	// reference the person; otherwise the count is zero.
	AddPerson(ctx context.Context, name, phone string) (*models.Person, int, error)

	// EnsurePerson returns the person with the given name, creating an
	// implicit (unregistered) record if none exists.
	EnsurePerson(ctx context.Context, name string) (*models.Person, error)

	GetPerson(ctx context.Context, id models.PersonID) (*models.Person, error)
	ListPeople(ctx context.Context) ([]models.Person, error)

	// DeletePerson removes a person. It fails with ErrPersonInUse if any
	// expense or group still references them.
	DeletePerson(ctx context.Context, id models.PersonID) error

	// AddExpense validates and persists an expense, assigning ID and Date.
	// All referenced PersonIDs must exist; SplitWith must be non-empty;
	// the amount and all itemized shares must be non-negative.
	AddExpense(ctx context.Context, expense *models.Expense) error

	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// DeleteExpense removes an expense. Deleting a nonexistent ID is a
	// no-op; balances simply recompute from the remaining records.
	DeleteExpense(ctx context.Context, id models.ExpenseID) error

	// AddGroup validates member references and persists the group.
	AddGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group; nonexistent IDs are a no-op.
	DeleteGroup(ctx context.Context, id models.GroupID) error

	// Account directory.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Owner profile.
	GetProfile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error

	// Close releases any resources held by the store.
	Close() error
}
