package directory

// validateParent checks that attaching branchID under parentID keeps the
// company's branch tree a tree: the parent must exist in the company's
// id->parent map, its ancestor chain must terminate, and the chain must not
// pass through branchID. branchID may be empty for a branch that does not
// exist yet. Ancestry is walked via id lookups only.
func validateParent(parents map[string]string, branchID, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == branchID {
		return ErrInvalidHierarchy
	}
	if _, ok := parents[parentID]; !ok {
		return ErrInvalidHierarchy
	}

	seen := make(map[string]bool, len(parents))
	for current := parentID; current != ""; {
		if current == branchID {
			return ErrInvalidHierarchy
		}
		if seen[current] {
			// Pre-existing cycle in the stored chain.
			return ErrInvalidHierarchy
		}
		seen[current] = true
		next, ok := parents[current]
		if !ok {
			return ErrInvalidHierarchy
		}
		current = next
	}
	return nil
}
