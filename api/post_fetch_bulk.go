package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) PostFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	page, limit, ok := parsePageLimit(c)
	if !ok {
		return
	}

	posts, pagination, err := a.Posts.List(actorID, actorRole, page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       posts,
		"pagination": pagination,
		"requestID":  requestID,
	})
}
