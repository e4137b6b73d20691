package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate lets a client probe whether its access token is still good.
// The auth middleware does the actual work, so reaching this handler
// means the token checked out
func (a *API) Validate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	c.JSON(http.StatusOK, gin.H{
		"account_id": actorID,
		"role":       actorRole,
		"requestID":  requestID,
	})
}
