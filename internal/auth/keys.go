// Package auth provides password hashing and bearer token issuing/verification.
package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aidanwoods.dev/go-paseto"
)

// KeyFileName is the file under the data directory holding the PASETO key.
const KeyFileName = "auth.key"

// LoadOrGenerateKey returns the PASETO v4 symmetric key stored hex-encoded in
// <dataPath>/auth.key, creating the file with a fresh key on first run.
func LoadOrGenerateKey(dataPath string) (paseto.V4SymmetricKey, error) {
	keyPath := filepath.Join(dataPath, KeyFileName)

	//#nosec G304 -- key path is derived from the configured data path
	raw, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		key, err := paseto.V4SymmetricKeyFromHex(strings.TrimSpace(string(raw)))
		if err != nil {
			return paseto.V4SymmetricKey{}, fmt.Errorf("invalid auth key in %s: %w", keyPath, err)
		}
		return key, nil
	case !errors.Is(err, fs.ErrNotExist):
		return paseto.V4SymmetricKey{}, fmt.Errorf("read auth key: %w", err)
	}

	key := paseto.NewV4SymmetricKey()

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return paseto.V4SymmetricKey{}, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(key.ExportHex()), 0o600); err != nil {
		return paseto.V4SymmetricKey{}, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}
