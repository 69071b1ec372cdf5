package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/services"
)

// RosterHandler handles board and committee requests.
type RosterHandler struct {
	board      services.BoardService
	committees services.CommitteeService
}

// NewRosterHandler creates a new RosterHandler instance.
func NewRosterHandler(board services.BoardService, committees services.CommitteeService) *RosterHandler {
	return &RosterHandler{
		board:      board,
		committees: committees,
	}
}

// BoardPositionInput is one position of a board roster request.
type BoardPositionInput struct {
	Position         string `json:"position" binding:"max=32767"`
	Name             string `json:"name" binding:"max=32767"`
	AdditionalDuties string `json:"additional_duties" binding:"max=32767"`
	ContactInfo      string `json:"contact_info" binding:"max=32767"`
}

// SaveBoardRequest is the body of POST /api/bod.
type SaveBoardRequest struct {
	Year      looseString          `json:"year"`
	Positions []BoardPositionInput `json:"positions" binding:"dive"`
}

// SaveCommitteeRequest is the body of POST /api/committees.
type SaveCommitteeRequest struct {
	CommitteeName string                   `json:"committee_name" binding:"required,max=32767"`
	Members       []models.CommitteeMember `json:"members" binding:"dive"`
	MeetingNotes  string                   `json:"meeting_notes" binding:"max=32767"`
}

// ListBoard handles GET /api/bod?year=.
func (h *RosterHandler) ListBoard(c *gin.Context) {
	positions, err := h.board.List(c.Request.Context(), c.Query("year"))
	if err != nil {
		writeServiceError(c, err, "Failed to list board")
		return
	}
	c.JSON(http.StatusOK, positions)
}

// BoardYears handles GET /api/bod/years.
func (h *RosterHandler) BoardYears(c *gin.Context) {
	years, err := h.board.Years(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list board years")
		return
	}
	c.JSON(http.StatusOK, years)
}

// SaveBoard handles POST /api/bod.
func (h *RosterHandler) SaveBoard(c *gin.Context) {
	// Bind and validate request body
	var req SaveBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	// Map request DTOs to board positions
	positions := make([]models.BoardPosition, len(req.Positions))
	for i, p := range req.Positions {
		positions[i] = models.BoardPosition{
			Position:         p.Position,
			Name:             p.Name,
			AdditionalDuties: p.AdditionalDuties,
			ContactInfo:      p.ContactInfo,
		}
	}

	// Call service layer; the year's roster is replaced as a whole
	if err := h.board.SaveRoster(c.Request.Context(), string(req.Year), positions); err != nil {
		writeServiceError(c, err, "Failed to save board")
		return
	}
	c.JSON(http.StatusOK, success("Board of Directors saved successfully"))
}

// ListCommittees handles GET /api/committees.
func (h *RosterHandler) ListCommittees(c *gin.Context) {
	committees, err := h.committees.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "Failed to list committees")
		return
	}
	c.JSON(http.StatusOK, committees)
}

// SaveCommittee handles POST /api/committees.
func (h *RosterHandler) SaveCommittee(c *gin.Context) {
	// Bind and validate request body
	var req SaveCommitteeRequest
	if !bindJSON(c, &req) {
		return
	}

	// Call service layer
	if err := h.committees.Save(c.Request.Context(), req.CommitteeName, req.Members, req.MeetingNotes); err != nil {
		writeServiceError(c, err, "Failed to save committee")
		return
	}
	c.JSON(http.StatusOK, success("Committee saved successfully"))
}
