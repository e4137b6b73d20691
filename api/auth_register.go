package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthRegister registers a plain user account and logs it in right
// away, returning the account together with a fresh token pair
func (a *API) AuthRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	in, ok := data.toInput(c)
	if !ok {
		return
	}

	acc, err := a.Accounts.Register(in)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := a.Sessions.IssueFor(acc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account":       res.Account,
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"requestID":     requestID,
	})
}
