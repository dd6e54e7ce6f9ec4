package hierarchy

import (
	"context"
	"fmt"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func newTestService(store Store) *Service {
	return NewService(context.Background(), store, 0)
}

// seedScenario builds A(root) > B > C with two sources directly in C
// and one directly in B.
func seedScenario(f *fakeStore) {
	f.addFolder("a", "A", nil, 0)
	f.addFolder("b", "B", strPtr("a"), 0)
	f.addFolder("c", "C", strPtr("b"), 0)
	f.addSource("s1", strPtr("c"))
	f.addSource("s2", strPtr("c"))
	f.addSource("s3", strPtr("b"))
}

// seedChain builds a single line of folders c0 > c1 > ... > cN.
func seedChain(f *fakeStore, depth int) {
	f.addFolder("c0", "C0", nil, 0)
	for i := 1; i <= depth; i++ {
		f.addFolder(fmt.Sprintf("c%d", i), fmt.Sprintf("C%d", i), strPtr(fmt.Sprintf("c%d", i-1)), 0)
	}
}

// globalSourceTotal sums the recursive totals over all surviving
// roots, i.e. the number of sources still attached to the forest.
func globalSourceTotal(t *testing.T, svc *Service) int64 {
	t.Helper()
	var total int64
	for _, root := range svc.Tree(context.Background()) {
		total += root.TotalSources
	}
	return total
}
