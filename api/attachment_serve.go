package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// AttachmentServe streams the stored payload back under its original
// file name
func (a *API) AttachmentServe(c *gin.Context) {
	actorID, actorRole := actor(c)

	att, err := a.Attachments.Get(c.Param("id"), actorID, actorRole)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.OriginalName))
	c.Header("Content-Type", att.MimeType)
	c.File(att.Path)
}
