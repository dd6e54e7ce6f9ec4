package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MoveSource handles moving a single source to a folder (or to root
// when folder_id is null)
func (h *Handler) MoveSource(c *gin.Context) {
	var input struct {
		FolderID *string `json:"folder_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceID := c.Param("id")
	if err := h.svc.MoveSource(c.Request.Context(), sourceID, input.FolderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Source moved successfully",
		"source_id": sourceID,
		"folder_id": input.FolderID,
	})
}

// BatchMoveSources handles moving multiple sources to a folder with
// per-element result reporting
func (h *Handler) BatchMoveSources(c *gin.Context) {
	var input struct {
		SourceIDs []string `json:"source_ids" binding:"required,min=1"`
		FolderID  *string  `json:"folder_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: source_ids is required"})
		return
	}

	results, err := h.svc.BatchMoveSources(c.Request.Context(), input.SourceIDs, input.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}

	moved := 0
	for _, result := range results {
		if result.Moved {
			moved++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Batch move completed",
		"total":       len(results),
		"moved_count": moved,
		"folder_id":   input.FolderID,
		"results":     results,
	})
}
