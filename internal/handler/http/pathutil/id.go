package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// maxIDLength bounds ids taken from paths.
const maxIDLength = 128

// ExtractID extracts a resource id from a URL path.
// It removes the specified prefix; the remainder must be a single non-empty
// segment of letters, digits, '-' or '_'.
//
// Example:
//
//	id, err := ExtractID("/api/items/1700000000000", "/api/items/")
//	// Returns: "1700000000000", nil
func ExtractID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", ErrInvalidID
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	if id == "" || len(id) > maxIDLength {
		return "", ErrInvalidID
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", ErrInvalidID
		}
	}
	return id, nil
}
