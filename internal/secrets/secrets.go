// Package secrets generates the short-lived values mailed to users:
// numeric verification codes and hex reset tokens. Both come from
// crypto/rand; uniqueness is probabilistic.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	numericCodeMin  = 100000
	numericCodeSpan = 900000
	hexTokenBytes   = 20
)

// NumericCode returns a 6-digit code uniform over [100000, 999999].
func NumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(numericCodeSpan))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+numericCodeMin), nil
}

// HexToken returns 20 random bytes hex-encoded (40 characters).
func HexToken() (string, error) {
	buf := make([]byte, hexTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
