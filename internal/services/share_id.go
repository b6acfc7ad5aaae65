package services

import (
	"crypto/rand"

	"github.com/cockroachdb/errors"
)

const (
	shareIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	shareIDLength   = 6
	// rejectAbove is the largest multiple of len(alphabet) that fits in a
	// byte; bytes at or above it are discarded to keep the draw uniform.
	rejectAbove = 256 - 256%len(shareIDAlphabet)
)

// NewShareID draws a 6-character id uniformly from the 62-symbol alphabet
// using crypto/rand.
func NewShareID() (string, error) {
	var (
		out [shareIDLength]byte
		buf [shareIDLength * 2]byte
		n   int
	)
	for n < shareIDLength {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", errors.Wrap(err, "read random bytes")
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out[n] = shareIDAlphabet[int(b)%len(shareIDAlphabet)]
			n++
			if n == shareIDLength {
				break
			}
		}
	}
	return string(out[:]), nil
}

// ValidShareID reports whether id has the shape NewShareID produces.
func ValidShareID(id string) bool {
	if len(id) != shareIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
