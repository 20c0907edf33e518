package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a file path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) after cleaning
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateCardLabel validates a label bound to a card element.
// Labels end up inside SVG text and terminal cells, so they must be short and printable.
func ValidateCardLabel(label string) error {
	if len(label) > 64 {
		return New(ErrCodeInvalidInput, "card label too long (max 64 characters)")
	}
	for _, r := range label {
		if !unicode.IsPrint(r) {
			return New(ErrCodeInvalidInput, "card label contains non-printable characters: %q", label)
		}
	}
	return nil
}
