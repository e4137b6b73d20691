package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TodoFetchBulk lists the actor's todos. Admins see everyone's
func (a *API) TodoFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	page, limit, ok := parsePageLimit(c)
	if !ok {
		return
	}

	todos, pagination, err := a.Todos.List(actorID, actorRole, page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       todos,
		"pagination": pagination,
		"requestID":  requestID,
	})
}
