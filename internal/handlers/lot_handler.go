package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/services"
)

// LotHandler handles lot owner and lot map requests.
type LotHandler struct {
	owners services.LotOwnerService
	lotMap services.LotMapService
}

// NewLotHandler creates a new LotHandler instance.
func NewLotHandler(owners services.LotOwnerService, lotMap services.LotMapService) *LotHandler {
	return &LotHandler{
		owners: owners,
		lotMap: lotMap,
	}
}

// SyncResponse reports a rebuild of Lot_Owners from the directory.
type SyncResponse struct {
	SuccessResponse
	OwnersWritten int `json:"owners_written"`
}

// SaveRegionRequest is the body of POST /api/lot-map/regions.
type SaveRegionRequest struct {
	LotNumber   looseString        `json:"lot_number"`
	OwnerName   string             `json:"owner_name" binding:"max=32767"`
	RegionType  string             `json:"region_type" binding:"max=32767"`
	Coordinates models.Coordinates `json:"coordinates"`
	LabelX      *float64           `json:"label_x"`
	LabelY      *float64           `json:"label_y"`
}

// ListOwners handles GET /api/lot-owners.
func (h *LotHandler) ListOwners(c *gin.Context) {
	owners, err := h.owners.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list lot owners")
		return
	}
	c.JSON(http.StatusOK, owners)
}

// SaveOwner handles POST /api/lot-owners.
func (h *LotHandler) SaveOwner(c *gin.Context) {
	// Bind and validate request body
	var req models.LotOwner
	if !bindJSON(c, &req) {
		return
	}

	// Call service layer
	inserted, err := h.owners.Save(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to save lot owner")
		return
	}

	// Report whether the owner was added or updated
	message := "Lot owner updated successfully"
	if inserted {
		message = "Lot owner added successfully"
	}
	c.JSON(http.StatusOK, success(message))
}

// ImportOwners handles POST /api/lot-owners/bulk-import.
func (h *LotHandler) ImportOwners(c *gin.Context) {
	// Read the uploaded file
	data, ok := readUpload(c)
	if !ok {
		return
	}

	// Call service layer
	result, err := h.owners.Import(c.Request.Context(), data)
	if err != nil {
		writeServiceError(c, err, "Failed to import lot owners")
		return
	}
	writeImport(c, result, "lot owners")
}

// OwnersTemplate handles GET /api/lot-owners/template.
func (h *LotHandler) OwnersTemplate(c *gin.Context) {
	writeTemplate(c, services.LotOwnerTemplate)
}

// SyncOwners handles POST /api/lot-owners/sync-directory.
func (h *LotHandler) SyncOwners(c *gin.Context) {
	result, err := h.owners.SyncFromDirectory(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to sync lot owners")
		return
	}

	c.JSON(http.StatusOK, SyncResponse{
		SuccessResponse: success(fmt.Sprintf("Lot owners synced from directory (%d entries)", result.DirectoryEntries)),
		OwnersWritten:   result.OwnersWritten,
	})
}

// ListRegions handles GET /api/lot-map/regions.
func (h *LotHandler) ListRegions(c *gin.Context) {
	regions, err := h.lotMap.ListRegions(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list lot map regions")
		return
	}
	c.JSON(http.StatusOK, regions)
}

// SaveRegion handles POST /api/lot-map/regions.
func (h *LotHandler) SaveRegion(c *gin.Context) {
	// Bind and validate request body
	var req SaveRegionRequest
	if !bindJSON(c, &req) {
		return
	}

	// Map request DTO to the region model; absent labels stay zero
	region := models.LotMapRegion{
		LotNumber:   string(req.LotNumber),
		OwnerName:   req.OwnerName,
		RegionType:  req.RegionType,
		Coordinates: req.Coordinates,
	}
	if req.LabelX != nil {
		region.LabelX = *req.LabelX
	}
	if req.LabelY != nil {
		region.LabelY = *req.LabelY
	}

	// Call service layer
	if err := h.lotMap.SaveRegion(c.Request.Context(), region); err != nil {
		writeServiceError(c, err, "Failed to save lot map region")
		return
	}
	c.JSON(http.StatusOK, success("Lot map region saved"))
}

// GetRegion handles GET /api/lot-map/regions/:lot_number.
func (h *LotHandler) GetRegion(c *gin.Context) {
	region, err := h.lotMap.GetRegion(c.Request.Context(), c.Param("lot_number"))
	if err != nil {
		writeServiceError(c, err, "Failed to read lot map region")
		return
	}
	c.JSON(http.StatusOK, region)
}
