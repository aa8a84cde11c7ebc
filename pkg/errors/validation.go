package errors

import "unicode"

// ValidateID validates a module or target identifier for safety before it is
// used in store queries or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or null bytes
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	code := ErrCodeInvalidInput
	switch kind {
	case "module":
		code = ErrCodeInvalidModule
	case "target":
		code = ErrCodeInvalidTarget
	}

	if id == "" {
		return New(code, "%s id cannot be empty", kind)
	}
	if len(id) > 128 {
		return New(code, "%s id too long (max 128 characters)", kind)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s id contains control characters", kind)
		}
		switch r {
		case '/', '\\', 0:
			return New(code, "%s id contains invalid character %q", kind, r)
		}
	}
	return nil
}
