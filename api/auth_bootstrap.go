package api

import (
	"net/http"

	"wrenlabs/board-api/service"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	BirthDate   string `json:"birth_date"`
}

func (b registerBody) toInput(c *gin.Context) (service.RegisterInput, bool) {
	requestID := c.MustGet("requestID").(string)

	birth, ok := parseBirthDate(b.BirthDate)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Invalid registration data",
			"fields":    gin.H{"birth_date": "must be YYYY-MM-DD"},
			"requestID": requestID,
		})
		return service.RegisterInput{}, false
	}

	in := service.RegisterInput{
		Email:       b.Email,
		Password:    b.Password,
		DisplayName: b.DisplayName,
		BirthDate:   birth,
	}
	if b.Phone != "" {
		in.Phone = &b.Phone
	}

	return in, true
}

// AuthBootstrap creates the very first admin account. Once any admin
// exists this endpoint is permanently closed
func (a *API) AuthBootstrap(c *gin.Context) {
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

	acc, err := a.Accounts.Bootstrap(in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account":   acc,
		"requestID": requestID,
	})
}
