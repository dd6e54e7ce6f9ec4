package hierarchy

import (
	"sort"

	"go-knowledge-center/internal/models"
)

// BuildForest assembles the flat folder set into sorted root trees.
// Two passes: wrap every folder in a node keyed by id, then attach
// each node to its parent. A folder whose parent id does not resolve
// to a known folder is promoted to root level. Roots and every
// children list are ordered by (position, name).
func BuildForest(folders []models.Folder) []*models.FolderTreeNode {
	nodes := make([]*models.FolderTreeNode, len(folders))
	index := make(map[string]int, len(folders))
	for i, f := range folders {
		nodes[i] = &models.FolderTreeNode{
			Folder:   f,
			NodeType: "folder",
			Children: []*models.FolderTreeNode{},
		}
		index[f.ID] = i
	}

	roots := []*models.FolderTreeNode{}
	for i, f := range folders {
		if f.ParentID != nil {
			if p, ok := index[*f.ParentID]; ok {
				nodes[p].Children = append(nodes[p].Children, nodes[i])
				continue
			}
		}
		roots = append(roots, nodes[i])
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}
	return roots
}

// sortNodes orders siblings by position, breaking ties by name so the
// ordering is total and repeated builds are identical.
func sortNodes(nodes []*models.FolderTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Position != nodes[j].Position {
			return nodes[i].Position < nodes[j].Position
		}
		return nodes[i].Name < nodes[j].Name
	})
}
