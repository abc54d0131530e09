package handlers

import (
	"net/http"

	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/internal/services"
	"github.com/collabspace/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// Upsert stores the off-chain metadata for a project the chain already
// assigned an id to. Creates when the id is new, updates when the caller
// owns the existing row.
// POST /api/projects
func (h *ProjectHandler) Upsert(c *gin.Context) {
	var req services.UpsertProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, created, err := h.projectService.Upsert(middleware.GetAddress(c), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, project)
		return
	}
	c.JSON(http.StatusOK, project)
}

// List returns all projects with owner info and collaborator counts.
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projectService.List()
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetByID returns one project with its collaborator list.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	view, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetUserProjects returns the projects an address owns or collaborates on.
// GET /api/projects/user/:address
func (h *ProjectHandler) GetUserProjects(c *gin.Context) {
	view, err := h.projectService.UserProjects(c.Param("address"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus changes a project's status. Owner only.
// PUT /api/projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	project, err := h.projectService.UpdateStatus(middleware.GetAddress(c), c.Param("id"), req.Status)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

type RecoverRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// Recover acknowledges a chain re-sync request for an owned project.
// POST /api/projects/recover
func (h *ProjectHandler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	if err := h.projectService.Recover(middleware.GetAddress(c), req.ProjectID); err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Project recovery initiated successfully",
		"project_id": req.ProjectID,
	})
}
