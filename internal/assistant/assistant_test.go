package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/service"
	"github.com/spender-app/spender/internal/storage/memory"
)

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()
	ledger := service.NewLedgerService(memory.New(), cache.NewInMemoryCache())
	return New("", ledger)
}

func TestChatRequiresConfiguration(t *testing.T) {
	a := newTestAssistant(t)
	if a.Enabled() {
		t.Error("expected assistant without key to be disabled")
	}
	if _, err := a.Chat(context.Background(), "hello", "Alice"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestExecuteFunction(t *testing.T) {
	ctx := context.Background()
	a := newTestAssistant(t)

	t.Run("add_expense resolves user placeholder", func(t *testing.T) {
		args := json.RawMessage(`{
			"description": "sushi dinner",
			"amount": 40,
			"paidBy": "user",
			"splitWith": ["user", "Sarah"]
		}`)
		result, err := a.executeFunction(ctx, "Alice", "add_expense", args)
		if err != nil {
			t.Fatalf("executeFunction failed: %v", err)
		}
		out := result.(map[string]any)
		if out["success"] != true {
			t.Errorf("result = %+v, want success", out)
		}

		expenses, _ := a.ledger.ListExpenses(ctx)
		if len(expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(expenses))
		}
		payer, _ := a.ledger.GetPerson(ctx, expenses[0].PaidBy)
		if payer.Name != "Alice" {
			t.Errorf("payer = %q, want %q", payer.Name, "Alice")
		}
	})

	t.Run("get_balance reports direction", func(t *testing.T) {
		args := json.RawMessage(`{"personName": "Sarah"}`)
		result, err := a.executeFunction(ctx, "Alice", "get_balance", args)
		if err != nil {
			t.Fatalf("executeFunction failed: %v", err)
		}
		out := result.(map[string]any)
		msg := out["message"].(string)
		if !strings.Contains(msg, "Sarah owes you $20.00") {
			t.Errorf("message = %q, want Sarah owing 20.00", msg)
		}
	})

	t.Run("list_expenses defaults limit", func(t *testing.T) {
		result, err := a.executeFunction(ctx, "Alice", "list_expenses", json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("executeFunction failed: %v", err)
		}
		out := result.(map[string]any)
		if out["count"] != 1 {
			t.Errorf("count = %v, want 1", out["count"])
		}
	})

	t.Run("get_all_balances summarizes edges", func(t *testing.T) {
		result, err := a.executeFunction(ctx, "Alice", "get_all_balances", json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("executeFunction failed: %v", err)
		}
		out := result.(map[string]any)
		summary := out["summary"].([]string)
		if len(summary) != 1 || !strings.Contains(summary[0], "Sarah owes Alice") {
			t.Errorf("summary = %v, want one Sarah-owes-Alice line", summary)
		}
	})

	t.Run("unknown function", func(t *testing.T) {
		if _, err := a.executeFunction(ctx, "Alice", "nope", json.RawMessage(`{}`)); err == nil {
			t.Error("expected error for unknown function")
		}
	})
}
