// Package id generates short random identifiers for token IDs and temporary file names.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet is restricted to lowercase alphanumerics so IDs are safe inside
// file names, redis keys and JWT claims without escaping.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Size is the length of the random part of an ID.
const Size = 20

// Generate returns prefix-<random>, e.g. "tok-k3j9x0c2m1q8v7b6n5z4".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, Size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	if prefix == "" {
		return s, nil
	}
	return prefix + "-" + s, nil
}
