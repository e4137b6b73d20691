package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PostDelete removes a post, its attachment records and the stored
// payloads on disk
func (a *API) PostDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	if err := a.Posts.Delete(c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Post deleted",
		"requestID": requestID,
	})
}
