package utils

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RequestIDLength is the length of ids minted by NewRequestID
const RequestIDLength = 16

// GenerateRandomID generates a random alphanumeric string of length n.
// It returns "" if the system randomness source fails.
func GenerateRandomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return ""
		}
		b[i] = charset[num.Int64()]
	}
	return string(b)
}

// NewRequestID returns an id used to correlate the log lines of one HTTP request
func NewRequestID() string {
	return GenerateRandomID(RequestIDLength)
}
