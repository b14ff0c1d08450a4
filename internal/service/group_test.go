package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/storage"
	"github.com/spender-app/spender/internal/storage/memory"
)

func TestGroupService(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	balanceCache := cache.NewInMemoryCache()
	ledger := NewLedgerService(store, balanceCache)
	groups := NewGroupService(store, balanceCache)

	alice, _, _ := ledger.AddPerson(ctx, "Alice", "")
	bob, _, _ := ledger.AddPerson(ctx, "Bob", "")
	carol, _, _ := ledger.AddPerson(ctx, "Carol", "")
	dave, _, _ := ledger.AddPerson(ctx, "Dave", "")
	members := []models.PersonID{alice.ID, bob.ID, carol.ID, dave.ID}

	group, err := groups.CreateGroup(ctx, "Ski Trip", members)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("expands bill into a shared ledger expense", func(t *testing.T) {
		expense, err := groups.AddGroupExpense(ctx, group.ID, "Dinner", 80, 6.4, 14, alice.ID)
		if err != nil {
			t.Fatalf("AddGroupExpense failed: %v", err)
		}

		if math.Abs(expense.Amount-100.4) > 0.01 {
			t.Errorf("Amount = %v, want 100.4", expense.Amount)
		}
		if math.Abs(expense.AmountPerPerson-25.1) > 0.01 {
			t.Errorf("AmountPerPerson = %v, want 25.1", expense.AmountPerPerson)
		}
		if expense.Description != "Dinner (Ski Trip)" {
			t.Errorf("Description = %q, want %q", expense.Description, "Dinner (Ski Trip)")
		}
		if !expense.IsGroupExpense || expense.GroupID != group.ID {
			t.Errorf("expense not tagged to group: %+v", expense)
		}
		if len(expense.SplitWith) != 4 {
			t.Errorf("SplitWith = %v, want all 4 members", expense.SplitWith)
		}

		// Each non-payer owes the payer one even share.
		m, err := ledger.Balances(ctx)
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		for _, id := range []models.PersonID{bob.ID, carol.ID, dave.ID} {
			if math.Abs(m[id][alice.ID]-25.1) > 0.01 {
				t.Errorf("owed[%d][alice] = %v, want 25.1", id, m[id][alice.ID])
			}
		}
	})

	t.Run("updates group running totals", func(t *testing.T) {
		got, err := groups.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if math.Abs(got.TotalAmount-100.4) > 0.01 {
			t.Errorf("TotalAmount = %v, want 100.4", got.TotalAmount)
		}
		if math.Abs(got.TotalPerPerson-25.1) > 0.01 {
			t.Errorf("TotalPerPerson = %v, want 25.1", got.TotalPerPerson)
		}

		if _, err := groups.AddGroupExpense(ctx, group.ID, "Lift tickets", 200, 0, 0, bob.ID); err != nil {
			t.Fatalf("AddGroupExpense failed: %v", err)
		}
		got, _ = groups.GetGroup(ctx, group.ID)
		if math.Abs(got.TotalAmount-300.4) > 0.01 {
			t.Errorf("TotalAmount = %v, want 300.4", got.TotalAmount)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := groups.AddGroupExpense(ctx, 999, "Dinner", 10, 0, 0, alice.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("payer must be a member", func(t *testing.T) {
		outsider, _, _ := ledger.AddPerson(ctx, "Erin", "")
		_, err := groups.AddGroupExpense(ctx, group.ID, "Dinner", 10, 0, 0, outsider.ID)
		if !errors.Is(err, storage.ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("deleting the group keeps its expenses", func(t *testing.T) {
		before, _ := ledger.ListExpenses(ctx)
		if err := groups.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		after, _ := ledger.ListExpenses(ctx)
		if len(after) != len(before) {
			t.Errorf("expense count changed from %d to %d", len(before), len(after))
		}
	})
}
