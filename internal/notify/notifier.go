// Package notify sends SMS messages for payment reminders and expense
// notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPhone is returned for numbers that are not in E.164 format.
var ErrInvalidPhone = errors.New("phone number must be in E.164 format (e.g., +15551234567)")

// E.164: a plus sign, then 2 to 15 digits with no leading zero.
var phoneRegexp = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// ValidatePhone checks that the number is in E.164 format.
func ValidatePhone(phone string) error {
	if !phoneRegexp.MatchString(phone) {
		return fmt.Errorf("%w: received %q", ErrInvalidPhone, phone)
	}
	return nil
}

// Notifier delivers a text message to a phone number. Implementations may
// actually send (Twilio) or just log (console).
type Notifier interface {
	Send(ctx context.Context, to, message string) error
}

// PaymentRequestMessage builds the SMS body for a payment reminder.
func PaymentRequestMessage(fromName, toName string, amount float64) string {
	return fmt.Sprintf(`PAYMENT REQUEST

Hi %s!

%s is requesting payment for shared expenses.

Amount Due: $%.2f

Please settle up at your earliest convenience.

Sent via Spender App
Reply PAID when settled`, toName, fromName, amount)
}

// ExpenseNotificationMessage builds the SMS body telling someone they owe a
// share of a new expense.
func ExpenseNotificationMessage(personName string, amount float64, owedTo, expenseName string) string {
	return fmt.Sprintf("Hi %s! You owe $%.2f to %s for %q. Track your balance on Spender!",
		personName, amount, owedTo, expenseName)
}
