// Package id generates prefixed NanoIDs for stored records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idLength = 21

// Generate returns "<prefix>-<nanoid>", e.g. "ses-V1StGXR8_Z5jdHi6B-myT".
// Fails only when the system cannot supply secure random bytes.
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.New(idLength)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return prefix + "-" + suffix, nil
}
