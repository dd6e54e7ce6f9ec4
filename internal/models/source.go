package models

import "time"

// Source is the minimal projection of an externally owned knowledge
// source. Sources are never created here; only their folder reference
// is written.
type Source struct {
	SourceID    string    `json:"source_id" gorm:"primarykey;column:source_id"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"source_url"`
	DisplayName string    `json:"source_display_name"`
	FolderID    *string   `json:"folder_id" gorm:"index"`
	Metadata    JSON      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Source model
func (Source) TableName() string {
	return "sources"
}

// SourceInFolder is the folder-view projection of a source, with tags
// and knowledge type lifted out of the metadata bag.
type SourceInFolder struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	Title         string    `json:"title,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
	DisplayName   string    `json:"source_display_name,omitempty"`
	FolderID      *string   `json:"folder_id"`
	CreatedAt     time.Time `json:"created_at"`
	NodeType      string    `json:"node_type"`
	KnowledgeType string    `json:"knowledge_type,omitempty"`
	Tags          []string  `json:"tags"`
}

// InFolderView builds the folder-view projection of the source.
func (s *Source) InFolderView() SourceInFolder {
	view := SourceInFolder{
		ID:          s.SourceID,
		SourceID:    s.SourceID,
		Title:       s.Title,
		SourceURL:   s.SourceURL,
		DisplayName: s.DisplayName,
		FolderID:    s.FolderID,
		CreatedAt:   s.CreatedAt,
		NodeType:    "source",
		Tags:        []string{},
	}
	if kt, ok := s.Metadata["knowledge_type"].(string); ok {
		view.KnowledgeType = kt
	}
	if raw, ok := s.Metadata["tags"].([]interface{}); ok {
		for _, tag := range raw {
			if name, ok := tag.(string); ok {
				view.Tags = append(view.Tags, name)
			}
		}
	}
	return view
}
