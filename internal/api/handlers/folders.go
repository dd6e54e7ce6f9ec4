package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-knowledge-center/internal/hierarchy"
	"go-knowledge-center/internal/models"
)

// Handler bundles the hierarchy service for the HTTP layer.
type Handler struct {
	svc *hierarchy.Service
}

func New(svc *hierarchy.Service) *Handler {
	return &Handler{svc: svc}
}

// respondError maps the core error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var notFound *hierarchy.NotFoundError
	var validation *hierarchy.ValidationError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateFolder handles folder creation
func (h *Handler) CreateFolder(c *gin.Context) {
	var input struct {
		Name        string      `json:"name" binding:"required,min=1,max=255"`
		Description string      `json:"description"`
		Color       string      `json:"color"`
		Icon        string      `json:"icon"`
		Position    int         `json:"position"`
		ParentID    *string     `json:"parent_id"`
		Metadata    models.JSON `json:"metadata"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: folder name is required"})
		return
	}

	folder, err := h.svc.Create(c.Request.Context(), hierarchy.FolderCreate{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		Position:    input.Position,
		ParentID:    input.ParentID,
		Metadata:    input.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// ListFolders handles listing folders at one level of the hierarchy
func (h *Handler) ListFolders(c *gin.Context) {
	// Absent or "root" selects root-level folders.
	var parentID *string
	if raw := c.Query("parent_id"); raw != "" && raw != "root" {
		parentID = &raw
	}
	includeCounts := c.DefaultQuery("include_counts", "true") == "true"

	folders := h.svc.List(c.Request.Context(), parentID, includeCounts)

	c.JSON(http.StatusOK, gin.H{
		"folders": folders,
		"total":   len(folders),
	})
}

// GetFolder handles retrieving a single folder with its counts
func (h *Handler) GetFolder(c *gin.Context) {
	folder := h.svc.Get(c.Request.Context(), c.Param("id"))
	if folder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	c.JSON(http.StatusOK, folder)
}

// GetFolderTree handles retrieving the complete folder hierarchy
func (h *Handler) GetFolderTree(c *gin.Context) {
	tree := h.svc.Tree(c.Request.Context())

	totalFolders := 0
	var totalSources int64
	stack := append([]*models.FolderTreeNode{}, tree...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		totalFolders++
		stack = append(stack, node.Children...)
	}
	for _, root := range tree {
		totalSources += root.TotalSources
	}

	c.JSON(http.StatusOK, gin.H{
		"tree":          tree,
		"total_folders": totalFolders,
		"total_sources": totalSources,
	})
}

// GetFolderContents handles retrieving a folder with its immediate
// subfolders, sources and root path
func (h *Handler) GetFolderContents(c *gin.Context) {
	contents, err := h.svc.Contents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contents)
}

// UpdateFolder handles partial updates and reparenting
func (h *Handler) UpdateFolder(c *gin.Context) {
	var input struct {
		Name        *string     `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string     `json:"description"`
		Color       *string     `json:"color"`
		Icon        *string     `json:"icon"`
		Position    *int        `json:"position"`
		ParentID    *string     `json:"parent_id"`
		Metadata    models.JSON `json:"metadata"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.svc.Update(c.Request.Context(), c.Param("id"), hierarchy.FolderUpdate{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
		Position:    input.Position,
		ParentID:    input.ParentID,
		Metadata:    input.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder handles folder deletion in both modes: contents
// promoted to the parent (default) or the whole subtree removed
func (h *Handler) DeleteFolder(c *gin.Context) {
	moveContents := c.DefaultQuery("move_contents", "true") == "true"

	folder, err := h.svc.Delete(c.Request.Context(), c.Param("id"), moveContents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         fmt.Sprintf("Folder '%s' deleted successfully", folder.Name),
		"moved_to_parent": moveContents,
	})
}
