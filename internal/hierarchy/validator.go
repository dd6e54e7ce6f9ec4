package hierarchy

import "context"

// Validator guards the forest invariant on reparenting.
type Validator struct {
	traverser Traverser
}

func NewValidator(traverser Traverser) *Validator {
	return &Validator{traverser: traverser}
}

// WouldCreateCycle reports whether setting folderID's parent to
// candidateParentID would make folderID an ancestor of itself. It
// fails closed: an error while walking the ancestor chain (including a
// chain longer than the depth bound) reports a cycle, so an
// unverifiable move is never allowed.
func (v *Validator) WouldCreateCycle(ctx context.Context, folderID, candidateParentID string) bool {
	if folderID == candidateParentID {
		return true
	}
	isDescendant, err := v.traverser.IsDescendant(ctx, candidateParentID, folderID)
	if err != nil {
		return true
	}
	return isDescendant
}
