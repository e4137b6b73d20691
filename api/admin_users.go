package api

import (
	"net/http"

	"wrenlabs/board-api/model"
	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

type adminCreateBody struct {
	registerBody
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (a *API) AdminUserCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data adminCreateBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	in, ok := data.registerBody.toInput(c)
	if !ok {
		return
	}

	acc, err := a.Accounts.AdminCreate(service.AdminCreateInput{
		RegisterInput: in,
		Role:          model.Role(data.Role),
		Status:        model.Status(data.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}

func (a *API) AdminUserFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, limit, ok := parsePageLimit(c)
	if !ok {
		return
	}

	accounts, pagination, err := a.Accounts.List(page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       accounts,
		"pagination": pagination,
		"requestID":  requestID,
	})
}

type roleBody struct {
	Role string `json:"role"`
}

func (a *API) AdminUserRole(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data roleBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	acc, err := a.Accounts.UpdateRole(c.Param("id"), model.Role(data.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}

type statusBody struct {
	Status string `json:"status"`
}

func (a *API) AdminUserStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data statusBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	acc, err := a.Accounts.UpdateStatus(c.Param("id"), model.Status(data.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}

// AdminUserDelete removes an account together with all of its todos,
// posts and stored attachment payloads. Admins can't delete themselves
func (a *API) AdminUserDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	if err := a.Accounts.Delete(c.Param("id"), actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Account deleted",
		"requestID": requestID,
	})
}
