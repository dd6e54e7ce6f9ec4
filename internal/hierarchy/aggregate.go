package hierarchy

import (
	"context"

	"go-knowledge-center/internal/models"
)

// Aggregator computes the derived folder counters.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// DirectSourceCount counts sources directly in the folder.
func (a *Aggregator) DirectSourceCount(ctx context.Context, folderID string) (int64, error) {
	return a.store.SourceCount(ctx, folderID)
}

// DirectSubfolderCount counts immediate subfolders.
func (a *Aggregator) DirectSubfolderCount(ctx context.Context, folderID string) (int64, error) {
	return a.store.SubfolderCount(ctx, folderID)
}

// ForestCounts loads every folder with all three derived counters
// populated. It costs one folder query plus one grouped source count
// query regardless of folder count; totals come from a single
// bottom-up pass over the in-memory forest.
func (a *Aggregator) ForestCounts(ctx context.Context) ([]models.Folder, error) {
	folders, err := a.store.Folders(ctx)
	if err != nil {
		return nil, err
	}
	direct, err := a.store.SourceCountsByFolder(ctx)
	if err != nil {
		return nil, err
	}

	totals := subtreeTotals(folders, direct)
	subfolders := make(map[string]int64)
	for _, f := range folders {
		if f.ParentID != nil {
			subfolders[*f.ParentID]++
		}
	}

	for i := range folders {
		f := &folders[i]
		f.SourceCount = direct[f.ID]
		f.SubfolderCount = subfolders[f.ID]
		f.TotalSources = totals[f.ID]
	}
	return folders, nil
}

// subtreeTotals computes total(F) = direct(F) + sum of total(C) over
// F's children for every folder. Parent/child relations are held as
// slice indices and the fold is iterative, so depth is bounded by the
// explicit traversal order rather than the call stack. Folders whose
// parent id does not resolve are treated as roots; folders trapped in
// a corrupted cycle are unreachable from any root and keep a zero
// total.
func subtreeTotals(folders []models.Folder, direct map[string]int64) map[string]int64 {
	index := make(map[string]int, len(folders))
	for i, f := range folders {
		index[f.ID] = i
	}

	children := make([][]int, len(folders))
	roots := []int{}
	for i, f := range folders {
		if f.ParentID != nil {
			if p, ok := index[*f.ParentID]; ok {
				children[p] = append(children[p], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	// Pre-order via explicit stack; reversing it puts every folder
	// after all of its descendants.
	order := make([]int, 0, len(folders))
	stack := append([]int{}, roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		stack = append(stack, children[n]...)
	}

	totals := make(map[string]int64, len(folders))
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		total := direct[folders[n].ID]
		for _, c := range children[n] {
			total += totals[folders[c].ID]
		}
		totals[folders[n].ID] = total
	}
	return totals
}
