package hierarchy

import (
	"context"

	"go-knowledge-center/internal/models"
)

// Store is the persistence surface the hierarchy core depends on.
// GormStore implements it against Postgres; the package tests provide
// an in-memory implementation. Folder listings are always returned in
// (position, name) order.
type Store interface {
	// FolderByID returns (nil, nil) when the folder does not exist.
	FolderByID(ctx context.Context, id string) (*models.Folder, error)
	// Folders returns every folder in the hierarchy.
	Folders(ctx context.Context) ([]models.Folder, error)
	// FoldersByParent returns the folders under parentID; a nil
	// parentID selects root-level folders.
	FoldersByParent(ctx context.Context, parentID *string) ([]models.Folder, error)
	InsertFolder(ctx context.Context, folder *models.Folder) error
	// UpdateFolder applies a partial field update and reports how many
	// rows it touched.
	UpdateFolder(ctx context.Context, id string, fields map[string]interface{}) (int64, error)
	DeleteFolder(ctx context.Context, id string) (int64, error)

	// SourcesByFolder returns the sources in a folder, newest first.
	SourcesByFolder(ctx context.Context, folderID string) ([]models.Source, error)
	SetSourceFolder(ctx context.Context, sourceID string, folderID *string) (int64, error)
	// ReassignSources moves every source in fromFolderID to toFolderID
	// (nil for root).
	ReassignSources(ctx context.Context, fromFolderID string, toFolderID *string) error
	// ReassignSubfolders reparents every folder under fromParentID to
	// toParentID (nil for root).
	ReassignSubfolders(ctx context.Context, fromParentID string, toParentID *string) error
	DeleteSourcesInFolder(ctx context.Context, folderID string) error

	SourceCount(ctx context.Context, folderID string) (int64, error)
	// SourceCountsByFolder returns direct source counts for every
	// folder in a single grouped query.
	SourceCountsByFolder(ctx context.Context) (map[string]int64, error)
	SubfolderCount(ctx context.Context, folderID string) (int64, error)

	// WithTx runs fn against a store bound to a single transaction.
	// An error from fn rolls the transaction back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// RecursiveStore is implemented by stores whose backend can answer
// hierarchy traversals server-side. The client-side fallbacks in this
// package must produce identical results for the same data.
type RecursiveStore interface {
	Store
	// RecursiveSourceCount counts sources in the folder and its entire
	// subtree.
	RecursiveSourceCount(ctx context.Context, folderID string) (int64, error)
	// FolderPath returns the folder names from the root down to
	// folderID.
	FolderPath(ctx context.Context, folderID string) ([]string, error)
	// IsDescendant reports whether ancestorID appears on folderID's
	// parent chain. A folder is considered its own descendant.
	IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error)
}
