package api

import (
	"net/http"
	"strconv"
	"time"

	"wrenlabs/board-api/apperr"
	"wrenlabs/board-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes the uniform error envelope for a service failure.
// The kind picks the status code, internal errors get logged and their
// detail hidden
func respondError(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		zap.L().Error("Unhandled error", zap.Error(e), zap.String("requestID", requestID))
	}

	body := gin.H{
		"error":     e.Msg,
		"requestID": requestID,
	}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}

	c.AbortWithStatusJSON(e.Kind.Status(), body)
}

// parsePageLimit reads the common pagination query params. Writes the
// error response itself and reports ok=false on junk input
func parsePageLimit(c *gin.Context) (page, limit int, ok bool) {
	requestID := c.MustGet("requestID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Page must be a positive integer",
			"requestID": requestID,
		})
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be between 1 and 100",
			"requestID": requestID,
		})
		return 0, 0, false
	}

	return page, limit, true
}

// parseBirthDate accepts an optional YYYY-MM-DD string
func parseBirthDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}

	return &t, true
}

func actor(c *gin.Context) (string, model.Role) {
	return c.MustGet("actorID").(string), c.MustGet("actorRole").(model.Role)
}
