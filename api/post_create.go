package api

import (
	"net/http"

	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

type postBody struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (a *API) PostCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	var data postBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	post, err := a.Posts.Create(actorID, service.PostInput{
		Title:     data.Title,
		Body:      data.Body,
		Published: data.Published,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":      post,
		"requestID": requestID,
	})
}
