package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateAlpha checks a significance level for a statistical CI test.
// Alpha must lie strictly between 0 and 1.
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return New(ErrCodeInvalidInput, "significance level must be in (0, 1), got %v", alpha)
	}
	return nil
}

// ValidateProbability checks an edge probability for graph generation.
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidInput, "edge probability must be in [0, 1], got %v", p)
	}
	return nil
}

// ValidateCliqueNumber checks a clique number bound. Zero means "estimate".
func ValidateCliqueNumber(k int) error {
	if k < 0 {
		return New(ErrCodeInvalidInput, "clique number must be non-negative, got %d", k)
	}
	return nil
}

// ValidatePath validates a file path supplied by a remote caller.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
