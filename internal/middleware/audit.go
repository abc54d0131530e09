package middleware

import (
	"github.com/collabspace/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditLog records authenticated write operations (POST/PUT/DELETE) to the
// audit_logs table. Runs after AuthRequired so the caller identity is in the
// context.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		c.Next()

		userID := GetUserID(c)
		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		services.RecordAudit(services.AuditEntry{
			Method:    method,
			Path:      c.Request.URL.Path,
			Route:     c.FullPath(),
			Status:    c.Writer.Status(),
			UserID:    uid,
			Address:   GetAddress(c),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
	}
}
