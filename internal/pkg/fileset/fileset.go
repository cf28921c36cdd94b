// Package fileset computes the blob-reference changes needed to move an
// entity's persisted file set from one state to another. It only decides which
// references to keep and which to delete; uploads happen before reconciliation
// and physical deletion happens after, both owned by the caller.
package fileset

// Result describes the outcome of reconciling an old reference set against a
// desired one.
type Result struct {
	// ToDelete holds references present before but absent from the desired
	// set. Deletion is best-effort cleanup, never a precondition for the
	// row write.
	ToDelete []string
	// ToKeep is the desired set, deduplicated.
	ToKeep []string
}

// Reconcile returns old − desired as ToDelete and dedupe(desired) as ToKeep.
// Reconciling twice with the same desired set deletes nothing new.
func Reconcile(old, desired []string) Result {
	keep := Dedupe(desired)

	wanted := make(map[string]struct{}, len(keep))
	for _, ref := range keep {
		wanted[ref] = struct{}{}
	}

	var toDelete []string
	seen := make(map[string]struct{}, len(old))
	for _, ref := range old {
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		if _, ok := wanted[ref]; !ok {
			toDelete = append(toDelete, ref)
		}
	}
	return Result{ToDelete: toDelete, ToKeep: keep}
}

// ReconcileSingle resolves a single-reference field (hero image, logo) from
// the current value, an optional replacement upload, and an explicit remove
// flag. The remove flag always wins: when both signals are present the field
// is cleared and the just-uploaded replacement is scheduled for deletion so it
// does not leak.
func ReconcileSingle(current, replacement *string, remove bool) (next *string, toDelete []string) {
	if remove {
		if current != nil && *current != "" {
			toDelete = append(toDelete, *current)
		}
		if replacement != nil && *replacement != "" {
			toDelete = append(toDelete, *replacement)
		}
		return nil, toDelete
	}
	if replacement != nil && *replacement != "" {
		if current != nil && *current != "" && *current != *replacement {
			toDelete = append(toDelete, *current)
		}
		return replacement, toDelete
	}
	return current, nil
}

// Dedupe drops empty strings and duplicates while preserving first-seen order.
func Dedupe(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
