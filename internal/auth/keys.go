// Package auth provides session token minting and verification.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PASETO v4 local mode uses a 256-bit symmetric key, stored hex-encoded.
const keyLength = 32

// LoadOrGenerateKey returns the access token key from <basePath>/auth.key,
// generating and persisting a fresh one on first run.
func LoadOrGenerateKey(basePath string) ([]byte, error) {
	keyPath := filepath.Join(basePath, "auth.key")

	//#nosec G304 -- Auth key path is derived from validated store path
	raw, err := os.ReadFile(keyPath)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("auth key is not valid hex: %w", err)
		}
		if len(key) != keyLength {
			return nil, fmt.Errorf("auth key must be %d bytes, got %d", keyLength, len(key))
		}
		return key, nil
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}

	return key, nil
}
