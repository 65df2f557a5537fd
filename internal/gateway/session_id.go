package gateway

import (
	"regexp"
	"strings"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "primary"

// Session IDs name credential files on disk.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ResolveSessionID trims id, substitutes DefaultSessionID for an empty value
// and validates the result.
func ResolveSessionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSessionID, nil
	}
	if !sessionIDPattern.MatchString(id) {
		return "", ErrInvalidSessionID
	}
	return id, nil
}
