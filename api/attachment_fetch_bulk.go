package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) AttachmentFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	attachments, err := a.Attachments.List(c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"requestID":   requestID,
	})
}
