package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AttachmentUpload accepts a multipart batch under the "files" field.
// The whole batch is validated before anything touches the disk, so a
// single bad file rejects all of them
func (a *API) AttachmentUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, actorRole := actor(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})
		return
	}

	attachments, err := a.Attachments.Upload(c.Param("id"), actorID, actorRole, form.File["files"])
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attachments": attachments,
		"requestID":   requestID,
	})
}
