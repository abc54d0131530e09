package handlers

import (
	"net/http"

	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/internal/services"
	"github.com/collabspace/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		profileService: services.NewProfileService(db),
	}
}

// Get returns the caller's merged user+profile view.
// GET /api/profile and GET /api/user-data
func (h *ProfileHandler) Get(c *gin.Context) {
	view, err := h.profileService.Get(middleware.GetUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update upserts the caller's profile and returns the merged view.
// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	view, err := h.profileService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
