package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TodoFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	todo, err := a.Todos.Get(c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"todo":      todo,
		"requestID": requestID,
	})
}
