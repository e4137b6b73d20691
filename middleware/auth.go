package middleware

import (
	"errors"
	"net/http"
	"strings"

	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAuthMiddleware verifies the bearer access token and confirms the
// account behind it still exists and is active. On success the actor's
// id and role are stored on the context for handlers to pass into the
// service layer explicitly
func NewAuthMiddleware(d *gorm.DB, tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing bearer token",
				"requestID": requestID,
			})
			return
		}

		id, ok := tokens.Verify(strings.TrimPrefix(header, "Bearer "), security.AccessToken)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid or expired token",
				"requestID": requestID,
			})
			return
		}

		// A token can outlive its account. Reject tokens of deleted or
		// disabled accounts even though they still verify
		var acc model.Account
		err := d.Where("id = ?", id.AccountID).First(&acc).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Invalid or expired token",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if account exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if acc.Status != model.StatusActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Account is disabled",
				"requestID": requestID,
			})
			return
		}

		// The role comes from the row, not the token, so demotions take
		// effect before the access token expires
		c.Set("actorID", acc.ID)
		c.Set("actorRole", acc.Role)
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Must run after
// the auth middleware
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		actorRole := c.MustGet("actorRole").(model.Role)

		if !security.HasRole(actorRole, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "You don't have permission to do this",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
