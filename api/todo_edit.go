package api

import (
	"net/http"

	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

type todoEditBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Done    *bool   `json:"done"`
}

func (a *API) TodoEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	var data todoEditBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	todo, err := a.Todos.Update(c.Param("id"), actorID, actorRole, service.TodoUpdate{
		Title:   data.Title,
		Content: data.Content,
		Done:    data.Done,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"todo":      todo,
		"requestID": requestID,
	})
}
