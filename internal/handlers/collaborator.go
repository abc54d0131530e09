package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/internal/services"
	"github.com/collabspace/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
}

func NewCollaboratorHandler(db *gorm.DB) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: services.NewCollaboratorService(db),
	}
}

type JoinRequest struct {
	Role string `json:"role"`
}

type RespondRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

// Request creates a Pending collaboration request for the caller.
// POST /api/projects/:id/collaborate
func (h *CollaboratorHandler) Request(c *gin.Context) {
	// Body is optional; role defaults to Contributor.
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.collaboratorService.RequestToJoin(
		middleware.GetUserID(c), middleware.GetAddress(c), c.Param("id"), req.Role)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

// Respond approves or rejects a pending request. Owner only.
// PUT /api/projects/:id/collaborate/:userId
func (h *CollaboratorHandler) Respond(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Approved or Rejected"})
		return
	}

	row, err := h.collaboratorService.Respond(
		middleware.GetAddress(c), c.Param("id"), uint(targetUserID), req.Status)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// Remove deletes a collaborator row regardless of status. Owner only.
// DELETE /api/projects/:id/collaborate/:userId
func (h *CollaboratorHandler) Remove(c *gin.Context) {
	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	row, err := h.collaboratorService.Remove(
		middleware.GetAddress(c), c.Param("id"), uint(targetUserID))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Collaborator removed successfully",
		"collaborator": row,
	})
}
