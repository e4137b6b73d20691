package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) AuthLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	if err := a.Sessions.Logout(actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Logged out",
		"requestID": requestID,
	})
}
