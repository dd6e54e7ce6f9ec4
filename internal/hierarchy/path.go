package hierarchy

import "context"

// Path walks parent references upward from folderID, collecting names.
// A missing record ends the walk: the partial path gathered so far is
// returned, and a shorter-than-expected path signals a dangling parent
// reference rather than a failure.
func (t *walkTraverser) Path(ctx context.Context, folderID string) ([]string, error) {
	names := []string{}
	currentID := folderID
	for depth := 0; depth < t.maxDepth; depth++ {
		folder, err := t.store.FolderByID(ctx, currentID)
		if err != nil {
			return reverse(names), err
		}
		if folder == nil {
			break
		}
		names = append(names, folder.Name)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}
	return reverse(names), nil
}

// reverse flips the leaf-first accumulation into root-first order.
func reverse(names []string) []string {
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}
