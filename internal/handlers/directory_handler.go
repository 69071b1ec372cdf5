package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/services"
)

// DirectoryHandler handles member directory requests.
type DirectoryHandler struct {
	service services.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler instance.
func NewDirectoryHandler(service services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
	}
}

// CreateEntryResponse is returned by POST /api/directory.
type CreateEntryResponse struct {
	SuccessResponse
	Entry models.DirectoryEntry `json:"entry"`
}

// List handles GET /api/directory.
func (h *DirectoryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list directory")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Search handles GET /api/directory/search?q=.
func (h *DirectoryHandler) Search(c *gin.Context) {
	entries, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeServiceError(c, err, "Failed to search directory")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Create handles POST /api/directory.
func (h *DirectoryHandler) Create(c *gin.Context) {
	// Bind and validate request body
	var req models.DirectoryFields
	if !bindJSON(c, &req) {
		return
	}

	// Call service layer
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to add entry")
		return
	}

	// Echo the stored entry with its assigned ID
	c.JSON(http.StatusOK, CreateEntryResponse{
		SuccessResponse: success("Entry added successfully"),
		Entry:           entry,
	})
}

// Update handles PUT /api/directory/:id.
func (h *DirectoryHandler) Update(c *gin.Context) {
	// Bind and validate request body
	var req models.DirectoryPatch
	if !bindJSON(c, &req) {
		return
	}

	// Call service layer; an unknown ID maps to 404
	if err := h.service.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		writeServiceError(c, err, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, success("Entry updated successfully"))
}

// Delete handles DELETE /api/directory/:id.
func (h *DirectoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err, "Failed to delete entry")
		return
	}
	c.JSON(http.StatusOK, success("Entry deleted successfully"))
}

// Import handles POST /api/directory/bulk-import.
func (h *DirectoryHandler) Import(c *gin.Context) {
	// Read the uploaded file
	data, ok := readUpload(c)
	if !ok {
		return
	}

	// Decode, validate and apply every row as one batch
	result, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		writeServiceError(c, err, "Failed to import directory")
		return
	}
	writeImport(c, result, "entries")
}

// Template handles GET /api/directory/template.
func (h *DirectoryHandler) Template(c *gin.Context) {
	writeTemplate(c, services.DirectoryTemplate)
}
