package api

import (
	"net/http"

	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

func (a *API) UserMe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	acc, err := a.Accounts.Get(actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}

type profileBody struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	BirthDate   *string `json:"birth_date"`
}

func (a *API) UserMeEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	var data profileBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	upd := service.ProfileUpdate{
		DisplayName: data.DisplayName,
		Phone:       data.Phone,
	}

	if data.BirthDate != nil {
		birth, ok := parseBirthDate(*data.BirthDate)
		if !ok || birth == nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Invalid profile data",
				"fields":    gin.H{"birth_date": "must be YYYY-MM-DD"},
				"requestID": requestID,
			})
			return
		}
		upd.BirthDate = birth
	}

	acc, err := a.Accounts.UpdateProfile(actorID, upd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}

type passwordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) UserMePassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actorID, _ := actor(c)

	var data passwordBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := a.Accounts.ChangePassword(actorID, data.CurrentPassword, data.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Password updated",
		"requestID": requestID,
	})
}
