package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost matches the work factor of hashes already in the users table.
	BcryptCost = 10

	// MaxPasswordLength caps the input before any hashing work is done.
	MaxPasswordLength = 1024

	// bcrypt only reads the first 72 bytes. Existing hashes were produced by a
	// library that truncates silently, so we truncate the same way.
	bcryptInputLimit = 72

	argon2Prefix = "$argon2id$"
)

// ErrPasswordTooLong is returned by HashPassword for inputs over MaxPasswordLength.
var ErrPasswordTooLong = errors.New("password exceeds maximum length")

// HashPassword returns a bcrypt hash of password at BcryptCost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches encodedHash. Both bcrypt
// ($2a$/$2b$/$2y$) and argon2id encodings are accepted. Malformed hashes and
// over-long passwords never match.
func VerifyPassword(encodedHash, password string) bool {
	if len(password) > MaxPasswordLength {
		return false
	}
	if strings.HasPrefix(encodedHash, argon2Prefix) {
		return verifyArgon2(encodedHash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), bcryptInput(password)) == nil
}

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptInputLimit {
		b = b[:bcryptInputLimit]
	}
	return b
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

func verifyArgon2(encodedHash, password string) bool {
	salt, want, params, err := decodeArgon2(encodedHash)
	if err != nil {
		return false
	}
	//nolint:gosec // hash length comes from a decoded key, well under uint32
	got := argon2.IDKey([]byte(password), salt, params.iterations, params.memory, params.parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}

// decodeArgon2 parses $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>.
func decodeArgon2(encodedHash string) (salt, hash []byte, params argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, params, errors.New("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("incompatible version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return nil, nil, params, fmt.Errorf("invalid parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, params, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, params, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, params, errors.New("empty hash")
	}
	return salt, hash, params, nil
}
