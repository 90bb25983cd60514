package errors

import (
	"strings"
	"unicode"
)

// Limits applied to instances submitted through untrusted channels (HTTP API).
const (
	MaxInstanceName = 128
	MaxModules      = 512
	MaxBoardWidth   = 4096
)

// ValidateInstanceName validates a user supplied instance name.
// Names are used as cache scopes, store keys and output file stems, so they
// must not contain path components or control characters.
func ValidateInstanceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "instance name cannot be empty")
	}

	if len(name) > MaxInstanceName {
		return New(ErrCodeInvalidInput, "instance name too long (max %d characters)", MaxInstanceName)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "instance name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "instance name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateInstanceSize rejects instances too large to encode on a shared server.
func ValidateInstanceSize(width, modules int) error {
	if width <= 0 || modules <= 0 {
		return New(ErrCodeInvalidInput, "width and module count must be positive")
	}
	if width > MaxBoardWidth {
		return New(ErrCodeInvalidInput, "board width %d exceeds limit %d", width, MaxBoardWidth)
	}
	if modules > MaxModules {
		return New(ErrCodeInvalidInput, "module count %d exceeds limit %d", modules, MaxModules)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.Split(strings.ReplaceAll(path, "\\", "/"), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
