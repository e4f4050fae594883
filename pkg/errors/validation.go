package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// corporationIDRegex matches corporation identifiers such as "PRR", "B&O"
// or "C&WI".
var corporationIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9&._-]*$`)

// ValidateCorporationID validates a corporation identifier taken from user
// input (CLI arguments, URL path segments).
//
// Validation rules:
//   - Cannot be empty
//   - Maximum length of 32 characters
//   - No control characters or whitespace
//   - Letters, digits and &._- only, starting with a letter or digit
func ValidateCorporationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCorporation, "corporation cannot be empty")
	}

	if len(id) > 32 {
		return New(ErrCodeInvalidCorporation, "corporation too long (max 32 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCorporation, "corporation contains invalid characters")
		}
	}

	if !corporationIDRegex.MatchString(id) {
		return New(ErrCodeInvalidCorporation, "invalid corporation: %q", id)
	}

	return nil
}

// hexNameRegex matches map coordinates such as "A1", "H18" or "AA3".
var hexNameRegex = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9]{1,3}$`)

// ValidateHexName validates a hex coordinate name.
func ValidateHexName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidHex, "hex cannot be empty")
	}
	if !hexNameRegex.MatchString(name) {
		return New(ErrCodeInvalidHex, "invalid hex: %q", name)
	}
	return nil
}

// ValidateBoardPath validates the path of a board file.
func ValidateBoardPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidBoard, "board path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "board path contains invalid characters")
		}
	}

	if !strings.HasSuffix(path, ".toml") {
		return New(ErrCodeInvalidBoard, "board file must have a .toml extension")
	}

	return nil
}

// ValidateCacheURL validates a report cache selector: "none", "file", or a
// redis:// or mongodb:// connection URL.
func ValidateCacheURL(raw string) error {
	switch raw {
	case "":
		return New(ErrCodeInvalidCache, "cache cannot be empty")
	case "none", "file":
		return nil
	}

	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(raw, scheme) {
			if len(raw) == len(scheme) {
				return New(ErrCodeInvalidCache, "cache URL has no host: %q", raw)
			}
			return nil
		}
	}

	return New(ErrCodeInvalidCache, "cache must be none, file, redis:// or mongodb://")
}
