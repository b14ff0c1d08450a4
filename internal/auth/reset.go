package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// resetCodeTTL is how long a password reset code stays valid.
const resetCodeTTL = 15 * time.Minute

// generateResetCode returns a random 6-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
