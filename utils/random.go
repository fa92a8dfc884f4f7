package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

const otpCharset = "0123456789"

// GenerateSecureToken returns a random hex string of the given byte length.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateOTP returns an n-digit numeric code. crypto/rand + big.Int keeps
// the digits unbiased.
func GenerateOTP(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid otp length")
	}
	var sb strings.Builder
	max := big.NewInt(int64(len(otpCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(otpCharset[num.Int64()])
	}
	return sb.String(), nil
}
