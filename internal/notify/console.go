package notify

import (
	"context"
	"log/slog"
)

// ConsoleNotifier logs messages instead of sending them. Used in development
// when SMS delivery is disabled.
type ConsoleNotifier struct{}

// NewConsoleNotifier creates a ConsoleNotifier.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Send logs the message that would have been delivered.
func (n *ConsoleNotifier) Send(ctx context.Context, to, message string) error {
	slog.Info("SMS simulated", "to", to, "message", message)
	return nil
}
