package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spender-app/spender/internal/assistant"
	"github.com/spender-app/spender/internal/auth"
	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/notify"
	"github.com/spender-app/spender/internal/service"
	"github.com/spender-app/spender/internal/storage/memory"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	store := memory.New()
	balanceCache := cache.NewInMemoryCache()
	ledger := service.NewLedgerService(store, balanceCache)
	groups := service.NewGroupService(store, balanceCache)
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	notifier := notify.NewConsoleNotifier()
	chat := assistant.New("", ledger)

	return New(ledger, groups, store, authenticator, tokens, notifier, chat)
}

func doRequest(t *testing.T, a *API, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestExpenseEndpoints(t *testing.T) {
	a := newTestAPI(t)

	t.Run("add expense by names", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/expenses", map[string]any{
			"description": "Dinner",
			"amount":      30.0,
			"paidBy":      "Alice",
			"splitWith":   []string{"Alice", "Bob"},
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var got struct {
			ID          int64   `json:"id"`
			Description string  `json:"description"`
			Amount      float64 `json:"amount"`
			PaidBy      int64   `json:"paidBy"`
			Date        string  `json:"date"`
		}
		decodeResponse(t, rec, &got)
		if got.ID == 0 {
			t.Error("expected expense id to be assigned")
		}
		if got.Description != "Dinner" || got.Amount != 30.0 {
			t.Errorf("unexpected expense: %+v", got)
		}
		if _, err := time.Parse(time.RFC3339, got.Date); err != nil {
			t.Errorf("date %q is not RFC 3339: %v", got.Date, err)
		}
	})

	t.Run("balances matrix includes zero entries", func(t *testing.T) {
		rec := doRequest(t, a, "GET", "/api/balances", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		var m map[string]map[string]float64
		decodeResponse(t, rec, &m)
		if len(m) != 2 {
			t.Fatalf("expected 2 rows, got %d: %v", len(m), m)
		}
		// Bob (id 2) owes Alice (id 1) half; the reverse entry is present at 0.
		if m["2"]["1"] != 15.0 {
			t.Errorf("owed[2][1] = %v, want 15.0", m["2"]["1"])
		}
		if v, ok := m["1"]["2"]; !ok || v != 0 {
			t.Errorf("owed[1][2] = %v (present=%v), want explicit 0", v, ok)
		}
	})

	t.Run("settle returns success", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/settle", map[string]any{
			"from": 2, "to": 1, "amount": 15.0,
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got map[string]bool
		decodeResponse(t, rec, &got)
		if !got["success"] {
			t.Errorf("response = %s, want success true", rec.Body.String())
		}

		simplified := doRequest(t, a, "GET", "/api/balances/simplified", nil, nil)
		var out struct {
			Debts []json.RawMessage `json:"debts"`
		}
		decodeResponse(t, simplified, &out)
		if len(out.Debts) != 0 {
			t.Errorf("expected no outstanding debts, got %d", len(out.Debts))
		}
	})

	t.Run("settle rejects bad amounts", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/settle", map[string]any{
			"from": 2, "to": 1, "amount": -1.0,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := doRequest(t, a, "DELETE", "/api/expenses/9999", nil, nil)
			if rec.Code != http.StatusOK {
				t.Errorf("attempt %d: status = %d, want 200", i+1, rec.Code)
			}
		}
	})
}

func TestPeopleEndpoints(t *testing.T) {
	a := newTestAPI(t)

	// An expense mentioning Bob creates him implicitly.
	doRequest(t, a, "POST", "/api/expenses", map[string]any{
		"description": "Lunch",
		"amount":      20.0,
		"paidBy":      "Alice",
		"splitWith":   []string{"Alice", "Bob"},
	}, nil)

	rec := doRequest(t, a, "POST", "/api/people", map[string]any{
		"name": "Bob", "phone": "+15551234567",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got struct {
		ID                 int64  `json:"id"`
		Name               string `json:"name"`
		HistoricalExpenses int    `json:"historicalExpenses"`
	}
	decodeResponse(t, rec, &got)
	if got.HistoricalExpenses != 1 {
		t.Errorf("historicalExpenses = %d, want 1", got.HistoricalExpenses)
	}

	t.Run("delete referenced person conflicts", func(t *testing.T) {
		rec := doRequest(t, a, "DELETE", fmt.Sprintf("/api/people/%d", got.ID), nil, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestGroupEndpoints(t *testing.T) {
	a := newTestAPI(t)

	rec := doRequest(t, a, "POST", "/api/groups", map[string]any{
		"name":    "Roommates",
		"members": []string{"Alice", "Bob", "Carol", "Dave"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var group struct {
		ID int64 `json:"id"`
	}
	decodeResponse(t, rec, &group)

	t.Run("group expense splits evenly with tax and tip", func(t *testing.T) {
		rec := doRequest(t, a, "POST", fmt.Sprintf("/api/groups/%d/expense", group.ID), map[string]any{
			"description": "Dinner",
			"subtotal":    80.0,
			"tax":         6.4,
			"tip":         14.0,
			"paidBy":      "Alice",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var expense struct {
			Amount          float64 `json:"amount"`
			AmountPerPerson float64 `json:"amountPerPerson"`
			Description     string  `json:"description"`
			IsGroupExpense  bool    `json:"isGroupExpense"`
		}
		decodeResponse(t, rec, &expense)
		if math.Abs(expense.Amount-100.4) > 0.01 {
			t.Errorf("amount = %v, want 100.4", expense.Amount)
		}
		if math.Abs(expense.AmountPerPerson-25.1) > 0.01 {
			t.Errorf("amountPerPerson = %v, want 25.1", expense.AmountPerPerson)
		}
		if expense.Description != "Dinner (Roommates)" {
			t.Errorf("description = %q", expense.Description)
		}
		if !expense.IsGroupExpense {
			t.Error("expected isGroupExpense true")
		}
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/groups/999/expense", map[string]any{
			"description": "Dinner", "subtotal": 10.0, "paidBy": 1,
		}, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("group delete is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := doRequest(t, a, "DELETE", fmt.Sprintf("/api/groups/%d", group.ID), nil, nil)
			if rec.Code != http.StatusOK {
				t.Errorf("attempt %d: status = %d, want 200", i+1, rec.Code)
			}
		}
	})
}

func TestAuthAndProfile(t *testing.T) {
	a := newTestAPI(t)

	rec := doRequest(t, a, "POST", "/api/auth/signup", map[string]any{
		"email": "alice@example.com", "password": "correct horse", "name": "Alice",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var signup struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeResponse(t, rec, &signup)
	if signup.Token == "" {
		t.Fatal("expected a session token")
	}
	if signup.User.Email != "alice@example.com" {
		t.Errorf("user email = %q", signup.User.Email)
	}

	t.Run("password never leaves the server", func(t *testing.T) {
		if bytes.Contains(rec.Body.Bytes(), []byte("correct horse")) ||
			bytes.Contains(rec.Body.Bytes(), []byte("passwordHash")) {
			t.Errorf("response leaks credentials: %s", rec.Body.String())
		}
	})

	t.Run("login with wrong password is 401", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/auth/login", map[string]any{
			"email": "alice@example.com", "password": "wrong",
		}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("profile requires a token", func(t *testing.T) {
		rec := doRequest(t, a, "GET", "/api/profile", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("profile round trip with token", func(t *testing.T) {
		headers := map[string]string{"Authorization": "Bearer " + signup.Token}

		rec := doRequest(t, a, "POST", "/api/profile", map[string]any{
			"name": "Alice", "bio": "hi",
		}, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, a, "GET", "/api/profile", nil, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("get status = %d", rec.Code)
		}
		var profile struct {
			Bio string `json:"bio"`
		}
		decodeResponse(t, rec, &profile)
		if profile.Bio != "hi" {
			t.Errorf("bio = %q, want %q", profile.Bio, "hi")
		}
	})
}

func TestNotifyEndpoints(t *testing.T) {
	a := newTestAPI(t)

	t.Run("notify-expense validates phone format", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/notify-expense", map[string]any{
			"to": "5551234567", "personName": "Bob", "amount": 10.0,
			"owedTo": "Alice", "expenseName": "Dinner",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("notify-expense sends for valid phone", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/notify-expense", map[string]any{
			"to": "+15551234567", "personName": "Bob", "amount": 10.0,
			"owedTo": "Alice", "expenseName": "Dinner",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got struct {
			Success bool   `json:"success"`
			Preview string `json:"preview"`
		}
		decodeResponse(t, rec, &got)
		if !got.Success || got.Preview == "" {
			t.Errorf("response = %s", rec.Body.String())
		}
	})

	t.Run("send-reminder requires a phone on file", func(t *testing.T) {
		doRequest(t, a, "POST", "/api/people", map[string]any{"name": "Alice"}, nil)
		doRequest(t, a, "POST", "/api/people", map[string]any{"name": "Bob"}, nil)

		rec := doRequest(t, a, "POST", "/api/send-reminder", map[string]any{
			"fromPersonId": 1, "toPersonId": 2, "amount": 15.0,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("assistant without key is 400", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/assistant/chat", map[string]any{
			"message": "hi", "userName": "Alice",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("receipt parse returns items", func(t *testing.T) {
		rec := doRequest(t, a, "POST", "/api/receipts/parse", map[string]any{
			"text": "Burger Deluxe $12.99\nSubtotal 12.99",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got struct {
			Items []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"items"`
		}
		decodeResponse(t, rec, &got)
		if len(got.Items) != 1 || got.Items[0].Name != "Burger Deluxe" {
			t.Errorf("items = %+v", got.Items)
		}
	})
}
