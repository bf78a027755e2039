package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/base64"
	"strings"
)

const (
	sessionTokenBytes = 32
	resetTokenBytes   = 32
	shortCodeBytes    = 5
)

// NewSessionToken returns an opaque, URL-safe bearer credential. Possession of
// the raw string is the authentication.
func NewSessionToken() (string, error) {
	return randomToken(sessionTokenBytes)
}

// NewResetToken returns a raw password-reset token. Only HashToken of it is
// ever persisted.
func NewResetToken() (string, error) {
	return randomToken(resetTokenBytes)
}

// HashToken maps a raw token to its storage form. SHA-256 is enough here: the
// input is 256 bits of entropy, not a guessable password.
func HashToken(raw string) []byte {
	sum := sha256.Sum256([]byte(raw))
	return sum[:]
}

// NewShortCode returns the public handle embedded in a QR code. Base32 keeps
// it case-insensitive and unambiguous when typed by hand.
func NewShortCode() (string, error) {
	buf := make([]byte, shortCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)), nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
