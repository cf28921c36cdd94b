// Package formdata decodes the loosely-typed multipart form fields the admin
// frontend sends: JSON blobs in text fields, "true"/"1" booleans, numeric
// strings.
package formdata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DecodeJSON parses raw as JSON into T, returning fallback when raw is empty
// or unparsable. It never returns an error; malformed client data degrades to
// the fallback.
func DecodeJSON[T any](raw string, fallback T) T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fallback
	}
	return out
}

// Bool interprets the form-field truthy conventions: "true" and "1".
func Bool(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "true" || raw == "1"
}

// Int parses raw as an integer, falling back to def.
func Int(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}
