package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TodoDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	if err := a.Todos.Delete(c.Param("id"), actorID, actorRole); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Todo deleted",
		"requestID": requestID,
	})
}
