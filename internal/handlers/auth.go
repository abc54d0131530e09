package handlers

import (
	"net/http"

	"github.com/collabspace/backend/internal/config"
	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/internal/services"
	"github.com/collabspace/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

// Register creates a user for a wallet address and issues a session token.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide all required fields"})
		return
	}

	token, err := h.authService.Register(&req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Login issues a session token for an already registered address.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide a wallet address"})
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetCurrentUser returns the caller's user row with profile fields.
// GET /api/auth
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	account, err := h.authService.CurrentUser(middleware.GetUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
