package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// codeAlphabet is the character set for affiliate codes. Codes are public
// referral handles, not secrets, but we still draw from crypto/rand to keep
// the distribution uniform.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomToken returns n random bytes hex-encoded, for single-use
// verification and password-reset tokens.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomCode returns an uppercase alphanumeric string of the given length.
// Bytes at or above the largest multiple of the alphabet size are rejected
// so every character is equally likely.
func RandomCode(length int) (string, error) {
	const limit = byte(256 - 256%len(codeAlphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, c := range buf {
			if c >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(c)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
