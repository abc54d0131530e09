package middleware

import (
	"net/http"

	"github.com/collabspace/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// HeaderAuthToken is the credential header the client sends.
	HeaderAuthToken = "X-Auth-Token"

	ContextUserID  = "user_id"
	ContextAddress = "address"
)

// AuthRequired checks the session token and injects the caller's identity
// into the request context for downstream ownership checks.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuthToken)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextAddress, claims.Address)

		c.Next()
	}
}

// GetUserID gets the current user ID from context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetAddress gets the current wallet address from context.
func GetAddress(c *gin.Context) string {
	if addr, exists := c.Get(ContextAddress); exists {
		return addr.(string)
	}
	return ""
}
