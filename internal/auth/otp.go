package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP returns a code of length decimal digits drawn from crypto/rand.
// Leading zeros are kept.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("auth: invalid otp length %d", length)
	}
	buf := make([]byte, length)
	ten := big.NewInt(10)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("auth: read random: %w", err)
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf), nil
}
