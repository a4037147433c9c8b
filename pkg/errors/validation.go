package errors

import (
	"strings"
	"unicode"
)

// MaxDimension bounds the sides of decoded source images and of targets
// requested over HTTP. Each seam costs a full energy and cost pass over
// the source, so larger inputs are rejected before any pixel is decoded.
const MaxDimension = 16384

// ValidatePath validates a local file path supplied by the user.
//
// Validation rules:
//   - Path cannot be empty or whitespace
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateDimension checks that a requested target size is positive.
// name is used in the message ("width", "height").
func ValidateDimension(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidDimensions, "target %s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateBoundedDimension is ValidateDimension with an upper limit.
func ValidateBoundedDimension(name string, v, max int) error {
	if err := ValidateDimension(name, v); err != nil {
		return err
	}
	if v > max {
		return New(ErrCodeInvalidDimensions, "target %s too large (max %d), got %d", name, max, v)
	}
	return nil
}
