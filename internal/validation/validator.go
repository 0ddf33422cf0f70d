// =============================================================================
// APT Notes Converter - Row Validation Module
// =============================================================================
//
// This module decides whether a data row can become a note, and turns the
// row key into a file name stem.
//
// VALIDATION RULES:
//   - The key (column 0) must not be empty or whitespace-only.
//   - The key must not equal the placeholder ("?" by default). The check is
//     against the raw key, so " ? " passes here and is caught by the
//     sanitized-name rule instead.
//   - After removing \ / * ? : " < > | and trimming, the name must not be
//     empty.
//
// =============================================================================

package validation

import (
	"errors"
	"strings"
)

// ErrMissingKey indicates an empty, whitespace-only or placeholder key.
var ErrMissingKey = errors.New("missing or invalid main name")

// ErrEmptyName indicates a key that sanitizes to an empty file name.
var ErrEmptyName = errors.New("empty sanitized name")

// illegalFilenameChars are removed from keys before they are used as file
// names.
const illegalFilenameChars = `\/*?:"<>|`

// Validator checks row keys.
type Validator struct {
	placeholder string
}

// NewValidator creates a Validator that rejects the given placeholder key.
func NewValidator(placeholder string) *Validator {
	return &Validator{placeholder: placeholder}
}

// CheckKey returns ErrMissingKey if key cannot name a document.
func (v *Validator) CheckKey(key string) error {
	if key == "" || key == v.placeholder || strings.TrimSpace(key) == "" {
		return ErrMissingKey
	}
	return nil
}

// FileStem validates key and returns its sanitized form.
//
// RETURNS:
//   - The file name stem (without extension).
//   - ErrMissingKey or ErrEmptyName if the row must be skipped.
func (v *Validator) FileStem(key string) (string, error) {
	if err := v.CheckKey(key); err != nil {
		return "", err
	}
	name := SanitizeFilename(key)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// SanitizeFilename removes characters that are illegal in file names and
// trims surrounding whitespace.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalFilenameChars, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}
