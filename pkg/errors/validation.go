package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateRelease validates a release identifier before it is interpolated
// into a raw-content URL. Release identifiers are otherwise opaque.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateRelease(release string) error {
	if release == "" {
		return New(ErrCodeInvalidRelease, "release cannot be empty")
	}

	if len(release) > 128 {
		return New(ErrCodeInvalidRelease, "release too long (max 128 characters)")
	}

	for _, r := range release {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidRelease, "release contains invalid characters: %q", release)
		}
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"/",  // Path separator
		"\\", // Backslash (Windows path)
		"?",  // Query
		"#",  // Fragment
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(release, pattern) {
			return New(ErrCodeInvalidRelease, "release contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// cratesPackageNameRegex matches valid crates.io package names.
var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCrateName validates a crates.io package name.
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCrate, "crate name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidCrate, "crate name too long (max 64 characters): %q", name)
	}
	if !cratesPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCrate, "invalid crates.io package name: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
