package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) PostFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	post, err := a.Posts.Get(c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":      post,
		"requestID": requestID,
	})
}
