// Package idgen generates short, URL-safe identifiers for saved views and
// export artifacts.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each kind of locally minted identifier. Candidate, job and
// application IDs come from the backend and are never generated here.
const (
	ViewPrefix   = "vw-"
	ExportPrefix = "ex-"
)

// Alphabet defines the character set used for the random portion of the ID.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 10

// NewViewID returns an identifier for a saved view.
func NewViewID() (string, error) {
	return WithPrefix(ViewPrefix)
}

// NewExportID returns an identifier for an export artifact.
func NewExportID() (string, error) {
	return WithPrefix(ExportPrefix)
}

// WithPrefix returns a new unique ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// ExportFileName names an export artifact, e.g. "candidates-ex-a1B2c3D4e5.csv".
func ExportFileName(exportID, ext string) string {
	return "candidates-" + exportID + "." + ext
}
