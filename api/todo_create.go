package api

import (
	"net/http"

	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

type todoBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *API) TodoCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	var data todoBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	todo, err := a.Todos.Create(actorID, service.TodoInput{
		Title:   data.Title,
		Content: data.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"todo":      todo,
		"requestID": requestID,
	})
}
