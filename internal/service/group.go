package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
)

// GroupService manages expense groups and expands group bills into ordinary
// ledger expenses, so group spending flows through the same balance engine as
// everything else.
type GroupService struct {
	store storage.Store
	cache cache.Cache
}

// NewGroupService creates a GroupService with the given storage backend and
// balance cache.
func NewGroupService(store storage.Store, c cache.Cache) *GroupService {
	return &GroupService{store: store, cache: c}
}

// CreateGroup creates a named group with the given members.
func (s *GroupService) CreateGroup(ctx context.Context, name string, members []models.PersonID) (*models.Group, error) {
	group := &models.Group{
		Name:    name,
		Members: members,
	}
	if err := s.store.AddGroup(ctx, group); err != nil {
		return nil, err
	}
	slog.Info("group created", "group_id", group.ID, "name", group.Name, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by id.
func (s *GroupService) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.store.ListGroups(ctx)
}

// DeleteGroup removes a group. Its expenses remain in the ledger and keep
// contributing to balances.
func (s *GroupService) DeleteGroup(ctx context.Context, id models.GroupID) error {
	return s.store.DeleteGroup(ctx, id)
}

// AddGroupExpense records a bill against a group. The total is
// subtotal + tax + tip, split evenly across all members, and the group's
// running totals are updated. The expense lands in the shared ledger like any
// other.
func (s *GroupService) AddGroupExpense(ctx context.Context, groupID models.GroupID, description string, subtotal, tax, tip float64, paidBy models.PersonID) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(paidBy) {
		return nil, fmt.Errorf("%w: payer %d is not a member of group %d", storage.ErrInvalid, paidBy, groupID)
	}
	if subtotal < 0 || tax < 0 || tip < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", storage.ErrInvalid)
	}

	total := subtotal + tax + tip
	perPerson := total / float64(len(group.Members))

	expense := &models.Expense{
		Description:     fmt.Sprintf("%s (%s)", description, group.Name),
		Amount:          total,
		PaidBy:          paidBy,
		SplitWith:       group.Members,
		IsGroupExpense:  true,
		GroupID:         group.ID,
		Subtotal:        subtotal,
		Tax:             tax,
		Tip:             tip,
		AmountPerPerson: perPerson,
	}
	if err := s.store.AddExpense(ctx, expense); err != nil {
		return nil, err
	}

	group.TotalAmount += total
	group.TotalPerPerson = group.TotalAmount / float64(len(group.Members))
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	slog.Info("group expense added",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"total", total,
		"per_person", perPerson,
	)
	return expense, nil
}
