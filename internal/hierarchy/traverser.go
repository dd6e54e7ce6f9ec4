package hierarchy

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// DefaultMaxDepth bounds every upward walk of the hierarchy. A chain
// longer than this is treated as corrupted data.
const DefaultMaxDepth = 100

// ErrDepthExceeded reports a parent chain longer than the configured
// maximum, which only happens when the stored hierarchy is corrupted.
var ErrDepthExceeded = errors.New("hierarchy depth limit exceeded")

// Traverser answers the three recursive questions about the hierarchy.
// The native implementation pushes them to the database; the walk
// implementation emulates them client-side. Both must produce
// identical results for the same data.
type Traverser interface {
	// TotalSourceCount counts sources in the folder and all its
	// descendants.
	TotalSourceCount(ctx context.Context, folderID string) (int64, error)
	// Path returns the folder names from the root down to folderID.
	// A broken parent chain yields the partial path below the gap.
	Path(ctx context.Context, folderID string) ([]string, error)
	// IsDescendant reports whether ancestorID appears on folderID's
	// parent chain; a folder counts as its own descendant. A dangling
	// parent reference ends the chain.
	IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error)
}

// selectTraverser probes the store once for server-side recursive
// helpers and falls back to client-side walks when the backend lacks
// them. The probe uses a fresh ID so it cannot match existing rows.
func selectTraverser(ctx context.Context, store Store, maxDepth int) Traverser {
	if rs, ok := store.(RecursiveStore); ok {
		if _, err := rs.RecursiveSourceCount(ctx, uuid.NewString()); err == nil {
			return &nativeTraverser{store: rs}
		}
	}
	return &walkTraverser{store: store, maxDepth: maxDepth}
}

type nativeTraverser struct {
	store RecursiveStore
}

func (t *nativeTraverser) TotalSourceCount(ctx context.Context, folderID string) (int64, error) {
	return t.store.RecursiveSourceCount(ctx, folderID)
}

func (t *nativeTraverser) Path(ctx context.Context, folderID string) ([]string, error) {
	return t.store.FolderPath(ctx, folderID)
}

func (t *nativeTraverser) IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error) {
	return t.store.IsDescendant(ctx, folderID, ancestorID)
}

// walkTraverser emulates the server-side helpers with plain store
// reads.
type walkTraverser struct {
	store    Store
	maxDepth int
}

// TotalSourceCount loads the folder set and the grouped direct counts
// once, then sums the subtree level by level in memory. One call costs
// two queries no matter how many folders exist. A subtree deeper than
// maxDepth reports ErrDepthExceeded; that only happens on corrupted
// data, and it is what the server-side helper reports too.
func (t *walkTraverser) TotalSourceCount(ctx context.Context, folderID string) (int64, error) {
	folders, err := t.store.Folders(ctx)
	if err != nil {
		return 0, err
	}
	direct, err := t.store.SourceCountsByFolder(ctx)
	if err != nil {
		return 0, err
	}

	children := make(map[string][]string, len(folders))
	for _, f := range folders {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	// Each folder has one parent, so levels never revisit a node unless
	// the chain is cyclic, and the depth bound catches that.
	total := direct[folderID]
	level := children[folderID]
	for depth := 1; len(level) > 0; depth++ {
		if depth >= t.maxDepth {
			return 0, ErrDepthExceeded
		}
		next := []string{}
		for _, id := range level {
			total += direct[id]
			next = append(next, children[id]...)
		}
		level = next
	}
	return total, nil
}

func (t *walkTraverser) IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error) {
	currentID := folderID
	for depth := 0; depth < t.maxDepth; depth++ {
		if currentID == ancestorID {
			return true, nil
		}
		folder, err := t.store.FolderByID(ctx, currentID)
		if err != nil {
			return false, err
		}
		if folder == nil || folder.ParentID == nil {
			return false, nil
		}
		currentID = *folder.ParentID
	}
	return false, ErrDepthExceeded
}
