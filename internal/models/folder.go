package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder is a node in the knowledge-base folder hierarchy. A nil
// ParentID marks a root-level folder.
type Folder struct {
	ID          string    `json:"id" gorm:"primarykey"`
	ParentID    *string   `json:"parent_id" gorm:"index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	Position    int       `json:"position" gorm:"not null;default:0"`
	Metadata    JSON      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed on retrieval, never persisted.
	SourceCount    int64 `json:"source_count" gorm:"-"`
	SubfolderCount int64 `json:"subfolder_count" gorm:"-"`
	TotalSources   int64 `json:"total_sources" gorm:"-"`
}

// BeforeCreate hook assigns an ID and normalizes metadata
func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Metadata == nil {
		f.Metadata = JSON{}
	}
	return nil
}

// TableName specifies the table name for the Folder model
func (Folder) TableName() string {
	return "folders"
}

// FolderTreeNode is a folder with its ordered children for tree views.
type FolderTreeNode struct {
	Folder
	NodeType string            `json:"node_type"`
	Children []*FolderTreeNode `json:"children"`
	Sources  []SourceInFolder  `json:"sources,omitempty"`
}

// FolderWithContents is a folder with its immediate (non-recursive)
// subfolders and sources, plus the name path from the root.
type FolderWithContents struct {
	Folder
	Subfolders []Folder         `json:"subfolders"`
	Sources    []SourceInFolder `json:"sources"`
	Path       []string         `json:"path"`
}
