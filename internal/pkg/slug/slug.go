// Package slug derives URL-safe, collection-unique identifiers from
// human-readable names. Uniqueness is probed through an injected oracle so the
// generator itself stays pure.
package slug

import (
	"fmt"
	"strings"
	"time"
)

// maxAttempts bounds the collision probe loop before falling back to a
// timestamp suffix.
const maxAttempts = 50

// TakenFunc reports whether a candidate slug already exists in the target
// collection. Callers probing for an update should exclude the entity's own
// id inside the closure.
type TakenFunc func(candidate string) (bool, error)

// Normalize converts s to slug form: lowercase, trimmed, quotes stripped,
// every run of characters outside [a-z0-9] collapsed to a single hyphen, and
// leading/trailing hyphens removed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r == '\'' || r == '"' || r == '‘' || r == '’' || r == '“' || r == '”':
			// quote characters vanish entirely rather than becoming hyphens
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// Generate resolves a collision-free slug for base. The normalized seed is
// probed first, then seed-1, seed-2, ... up to the attempt bound; if every
// candidate collides the seed gets a timestamp suffix as a last resort. An
// empty normalized seed falls back to the given default base. Oracle errors
// abort immediately and propagate unchanged.
func Generate(base, fallback string, taken TakenFunc) (string, error) {
	seed := Normalize(base)
	if seed == "" {
		seed = Normalize(fallback)
	}

	candidate := seed
	for i := 0; i < maxAttempts; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", seed, i+1)
	}
	return fmt.Sprintf("%s-%d", seed, time.Now().UnixMilli()), nil
}
