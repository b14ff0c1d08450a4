package notify

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+15551234567", true},
		{"+442071838750", true},
		{"+12", true},
		{"15551234567", false},
		{"+05551234567", false},
		{"+1555123456789012345", false},
		{"+1555-123-4567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if tt.valid && err != nil {
				t.Errorf("ValidatePhone(%q) = %v, want nil", tt.phone, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidPhone) {
				t.Errorf("ValidatePhone(%q) = %v, want ErrInvalidPhone", tt.phone, err)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	t.Run("payment request", func(t *testing.T) {
		msg := PaymentRequestMessage("Alice", "Bob", 15.5)
		for _, want := range []string{"Hi Bob!", "Alice is requesting payment", "Amount Due: $15.50", "Reply PAID"} {
			if !strings.Contains(msg, want) {
				t.Errorf("message missing %q:\n%s", want, msg)
			}
		}
	})

	t.Run("expense notification", func(t *testing.T) {
		msg := ExpenseNotificationMessage("Bob", 12.25, "Alice", "Dinner")
		want := `Hi Bob! You owe $12.25 to Alice for "Dinner". Track your balance on Spender!`
		if msg != want {
			t.Errorf("message = %q, want %q", msg, want)
		}
	})
}
