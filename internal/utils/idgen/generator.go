package idgen

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const defaultLength = 24

// Identifier prefixes.
const (
	UserPrefix  = "user"
	VideoPrefix = "vid"
)

// alphanumeric only, matching GenerateSecureID's charset
var idPattern = regexp.MustCompile(`^[a-z]+_[0-9a-z]+$`)

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length*2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// NewUserID returns a fresh user identifier (user_xxx).
func NewUserID() (string, error) {
	return GenerateSecureID(UserPrefix, defaultLength)
}

// NewVideoID returns a fresh video identifier (vid_xxx).
func NewVideoID() (string, error) {
	return GenerateSecureID(VideoPrefix, defaultLength)
}

// IsValid reports whether id is a well-formed identifier for the given prefix.
func IsValid(id, prefix string) bool {
	if len(id) <= len(prefix)+1 {
		return false
	}
	if id[:len(prefix)+1] != prefix+"_" {
		return false
	}
	return idPattern.MatchString(id)
}
