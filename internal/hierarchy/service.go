package hierarchy

import (
	"context"
	"fmt"
	"log"

	"go-knowledge-center/internal/models"
)

// Service orchestrates folder hierarchy operations against the store.
//
// Error policy, on purpose and asymmetric: mutating operations
// propagate NotFoundError/ValidationError/OperationFailureError to the
// caller, while read operations swallow store failures and return
// empty results, since callers rely on "empty means not found" for
// reads. Multi-step mutations run inside a single transaction scope.
type Service struct {
	store     Store
	traverser Traverser
	validator *Validator
	agg       *Aggregator
}

// NewService wires the hierarchy core. The traversal strategy is
// chosen here, once: stores advertising working server-side recursive
// helpers get the native traverser, everything else the client-side
// walk. maxDepth <= 0 selects DefaultMaxDepth.
func NewService(ctx context.Context, store Store, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	traverser := selectTraverser(ctx, store, maxDepth)
	return &Service{
		store:     store,
		traverser: traverser,
		validator: NewValidator(traverser),
		agg:       NewAggregator(store),
	}
}

// FolderCreate carries the fields for a new folder.
type FolderCreate struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Position    int
	ParentID    *string
	Metadata    models.JSON
}

// FolderUpdate carries a partial update; nil fields are left
// untouched. A non-nil ParentID reparents the folder.
type FolderUpdate struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Position    *int
	ParentID    *string
	Metadata    models.JSON
}

// BatchMoveResult reports the outcome for one source in a batch move.
type BatchMoveResult struct {
	SourceID string `json:"source_id"`
	Moved    bool   `json:"moved"`
	Error    string `json:"error,omitempty"`
}

// Create inserts a new folder. A given parent must exist.
func (s *Service) Create(ctx context.Context, in FolderCreate) (*models.Folder, error) {
	folder := models.Folder{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		Position:    in.Position,
		ParentID:    in.ParentID,
		Metadata:    in.Metadata,
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		if in.ParentID != nil {
			parent, err := tx.FolderByID(ctx, *in.ParentID)
			if err != nil {
				return fmt.Errorf("check parent folder: %w", err)
			}
			if parent == nil {
				return &NotFoundError{Kind: "folder", ID: *in.ParentID}
			}
		}
		return tx.InsertFolder(ctx, &folder)
	})
	if err != nil {
		return nil, err
	}

	// Sources may already reference a pre-assigned id, so report real
	// counts rather than zeros.
	if err := s.decorate(ctx, &folder); err != nil {
		log.Printf("hierarchy: counting contents of new folder %s: %v", folder.ID, err)
	}
	return &folder, nil
}

// Get returns the folder with counts, or nil when it does not exist.
// Read failures are folded into absence.
func (s *Service) Get(ctx context.Context, id string) *models.Folder {
	folder, err := s.store.FolderByID(ctx, id)
	if err != nil {
		log.Printf("hierarchy: get folder %s: %v", id, err)
		return nil
	}
	if folder == nil {
		return nil
	}
	if err := s.decorate(ctx, folder); err != nil {
		log.Printf("hierarchy: counting contents of folder %s: %v", id, err)
	}
	return folder
}

// List returns the folders under parentID (nil selects root-level
// folders) in (position, name) order. Store failures produce an empty
// list.
func (s *Service) List(ctx context.Context, parentID *string, includeCounts bool) []models.Folder {
	folders, err := s.store.FoldersByParent(ctx, parentID)
	if err != nil {
		log.Printf("hierarchy: list folders: %v", err)
		return []models.Folder{}
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	if !includeCounts || len(folders) == 0 {
		return folders
	}

	// Counts for the whole forest come from one pass, not one
	// traversal per listed folder.
	counted, err := s.agg.ForestCounts(ctx)
	if err != nil {
		log.Printf("hierarchy: count folder contents: %v", err)
		return folders
	}
	byID := make(map[string]models.Folder, len(counted))
	for _, f := range counted {
		byID[f.ID] = f
	}
	for i := range folders {
		if c, ok := byID[folders[i].ID]; ok {
			folders[i].SourceCount = c.SourceCount
			folders[i].SubfolderCount = c.SubfolderCount
			folders[i].TotalSources = c.TotalSources
		}
	}
	return folders
}

// Tree returns the complete forest with counts on every node. Failures
// yield an empty forest.
func (s *Service) Tree(ctx context.Context) []*models.FolderTreeNode {
	folders, err := s.agg.ForestCounts(ctx)
	if err != nil {
		log.Printf("hierarchy: build folder tree: %v", err)
		return []*models.FolderTreeNode{}
	}
	return BuildForest(folders)
}

// Contents returns the folder with its immediate subfolders, its
// sources, and the root path. The folder itself must exist.
func (s *Service) Contents(ctx context.Context, id string) (*models.FolderWithContents, error) {
	folder, err := s.store.FolderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load folder: %w", err)
	}
	if folder == nil {
		return nil, &NotFoundError{Kind: "folder", ID: id}
	}
	if err := s.decorate(ctx, folder); err != nil {
		log.Printf("hierarchy: counting contents of folder %s: %v", id, err)
	}

	subfolders := s.List(ctx, &id, true)

	sources := []models.SourceInFolder{}
	records, err := s.store.SourcesByFolder(ctx, id)
	if err != nil {
		log.Printf("hierarchy: list sources of folder %s: %v", id, err)
	}
	for i := range records {
		sources = append(sources, records[i].InFolderView())
	}

	// A partial path is still served; its length tells the caller
	// whether an ancestor record was missing.
	path, err := s.traverser.Path(ctx, id)
	if err != nil {
		log.Printf("hierarchy: resolve path of folder %s: %v", id, err)
	}

	return &models.FolderWithContents{
		Folder:     *folder,
		Subfolders: subfolders,
		Sources:    sources,
		Path:       path,
	}, nil
}

// Update applies the fields present in the update. Reparenting is
// rejected when it would create a cycle or when the new parent does
// not exist. An empty update is a no-op returning the current folder.
func (s *Service) Update(ctx context.Context, id string, in FolderUpdate) (*models.Folder, error) {
	err := s.store.WithTx(ctx, func(tx Store) error {
		existing, err := tx.FolderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load folder: %w", err)
		}
		if existing == nil {
			return &NotFoundError{Kind: "folder", ID: id}
		}

		fields := map[string]interface{}{}
		if in.Name != nil {
			fields["name"] = *in.Name
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		if in.Color != nil {
			fields["color"] = *in.Color
		}
		if in.Icon != nil {
			fields["icon"] = *in.Icon
		}
		if in.Position != nil {
			fields["position"] = *in.Position
		}
		if in.Metadata != nil {
			fields["metadata"] = in.Metadata
		}
		if in.ParentID != nil {
			parent, err := tx.FolderByID(ctx, *in.ParentID)
			if err != nil {
				return fmt.Errorf("check parent folder: %w", err)
			}
			if parent == nil {
				return &ValidationError{Reason: fmt.Sprintf("parent folder %s does not exist", *in.ParentID)}
			}
			if s.validator.WouldCreateCycle(ctx, id, *in.ParentID) {
				return &ValidationError{Reason: "cannot move folder: would create a cycle"}
			}
			fields["parent_id"] = *in.ParentID
		}

		if len(fields) == 0 {
			return nil
		}
		affected, err := tx.UpdateFolder(ctx, id, fields)
		if err != nil {
			return fmt.Errorf("update folder: %w", err)
		}
		if affected == 0 {
			return &OperationFailureError{Op: "update folder " + id}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	folder, err := s.store.FolderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload folder: %w", err)
	}
	if folder == nil {
		return nil, &NotFoundError{Kind: "folder", ID: id}
	}
	if err := s.decorate(ctx, folder); err != nil {
		log.Printf("hierarchy: counting contents of folder %s: %v", id, err)
	}
	return folder, nil
}

// Delete removes the folder. With moveToParent, its direct sources and
// subfolders are reattached to the folder's own parent (root when it
// had none) and nothing deeper is touched. Without it, the entire
// subtree and every source in it are deleted, children before
// ancestors. Both modes run in one transaction. The removed folder is
// returned.
func (s *Service) Delete(ctx context.Context, id string, moveToParent bool) (*models.Folder, error) {
	var folder *models.Folder
	err := s.store.WithTx(ctx, func(tx Store) error {
		// The parent read drives where contents are reattached, so it
		// happens inside the transaction and cannot go stale against a
		// concurrent move.
		var err error
		folder, err = tx.FolderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load folder: %w", err)
		}
		if folder == nil {
			return &NotFoundError{Kind: "folder", ID: id}
		}

		if moveToParent {
			if err := tx.ReassignSources(ctx, id, folder.ParentID); err != nil {
				return fmt.Errorf("reattach sources: %w", err)
			}
			if err := tx.ReassignSubfolders(ctx, id, folder.ParentID); err != nil {
				return fmt.Errorf("reattach subfolders: %w", err)
			}
		} else if err := deleteSubtree(ctx, tx, id); err != nil {
			return err
		}

		affected, err := tx.DeleteFolder(ctx, id)
		if err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		if affected == 0 {
			return &OperationFailureError{Op: "delete folder " + id}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// deleteSubtree removes every descendant folder of rootID and every
// source in the subtree, rootID's own row excluded. The subtree is
// collected breadth-first (a seen set keeps corrupted cycles from
// looping), then deleted in reverse discovery order so children go
// before their parents and no parent reference dangles mid-operation.
func deleteSubtree(ctx context.Context, tx Store, rootID string) error {
	order := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(order); i++ {
		children, err := tx.FoldersByParent(ctx, &order[i])
		if err != nil {
			return fmt.Errorf("list subfolders of %s: %w", order[i], err)
		}
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			order = append(order, child.ID)
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		folderID := order[i]
		if err := tx.DeleteSourcesInFolder(ctx, folderID); err != nil {
			return fmt.Errorf("delete sources of %s: %w", folderID, err)
		}
		if folderID == rootID {
			continue
		}
		if _, err := tx.DeleteFolder(ctx, folderID); err != nil {
			return fmt.Errorf("delete folder %s: %w", folderID, err)
		}
	}
	return nil
}

// MoveSource sets the source's folder reference to folderID, or clears
// it to root when folderID is nil.
func (s *Service) MoveSource(ctx context.Context, sourceID string, folderID *string) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if folderID != nil {
			folder, err := tx.FolderByID(ctx, *folderID)
			if err != nil {
				return fmt.Errorf("check target folder: %w", err)
			}
			if folder == nil {
				return &NotFoundError{Kind: "folder", ID: *folderID}
			}
		}
		affected, err := tx.SetSourceFolder(ctx, sourceID, folderID)
		if err != nil {
			return fmt.Errorf("move source: %w", err)
		}
		if affected == 0 {
			return &NotFoundError{Kind: "source", ID: sourceID}
		}
		return nil
	})
}

// BatchMoveSources moves every listed source to the target folder.
// The target is validated once up front; each source is then moved
// independently and reported separately. Best effort: a failure on one
// element does not undo earlier moves or stop later ones.
func (s *Service) BatchMoveSources(ctx context.Context, sourceIDs []string, folderID *string) ([]BatchMoveResult, error) {
	if len(sourceIDs) == 0 {
		return nil, &ValidationError{Reason: "no source ids given"}
	}
	if folderID != nil {
		folder, err := s.store.FolderByID(ctx, *folderID)
		if err != nil {
			return nil, fmt.Errorf("check target folder: %w", err)
		}
		if folder == nil {
			return nil, &NotFoundError{Kind: "folder", ID: *folderID}
		}
	}

	results := make([]BatchMoveResult, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		result := BatchMoveResult{SourceID: sourceID}
		affected, err := s.store.SetSourceFolder(ctx, sourceID, folderID)
		switch {
		case err != nil:
			result.Error = err.Error()
		case affected == 0:
			result.Error = "source not found"
		default:
			result.Moved = true
		}
		results = append(results, result)
	}
	return results, nil
}

// decorate fills the derived counters on a single folder.
func (s *Service) decorate(ctx context.Context, folder *models.Folder) error {
	direct, err := s.agg.DirectSourceCount(ctx, folder.ID)
	if err != nil {
		return err
	}
	subfolders, err := s.agg.DirectSubfolderCount(ctx, folder.ID)
	if err != nil {
		return err
	}
	total, err := s.traverser.TotalSourceCount(ctx, folder.ID)
	if err != nil {
		return err
	}
	folder.SourceCount = direct
	folder.SubfolderCount = subfolders
	folder.TotalSources = total
	return nil
}
