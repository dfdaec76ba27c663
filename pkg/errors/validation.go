package errors

import (
	"path"
	"strings"
	"unicode"
)

// MaxFiles bounds the file list accepted by the generate operation.
const MaxFiles = 20000

// ValidatePath validates a repository-relative file path handed to a classifier.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal segments (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(p) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range p {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	for _, seg := range strings.Split(path.Clean(p), "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateFiles checks a classifier file list: non-empty, bounded, every
// entry a valid relative path.
func ValidateFiles(files []string) error {
	if len(files) == 0 {
		return New(ErrCodeInvalidInput, "file list cannot be empty")
	}
	if len(files) > MaxFiles {
		return New(ErrCodeInvalidInput, "too many files (max %d)", MaxFiles)
	}
	for _, f := range files {
		if err := ValidatePath(f); err != nil {
			return Wrap(ErrCodeInvalidPath, err, "invalid file %q", f)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
