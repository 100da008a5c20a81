package listing

import (
	"regexp"

	"github.com/google/uuid"
)

// uuidPattern matches a canonical 8-4-4-4-12 hexadecimal UUID anywhere in a string
var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ExtractID returns the first UUID-shaped substring of text, as written.
// The id is not checked against the listings API.
func ExtractID(text string) (string, bool) {
	match := uuidPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// IsListingID reports whether id is exactly one canonical UUID
func IsListingID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
