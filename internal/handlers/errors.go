package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
	services.KindInternal:     http.StatusInternalServerError,
}

// respondError writes {"error": message}. Internal errors carry the
// underlying cause in "details" outside release mode.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "internal server error"
	cause := err
	var se *services.Error
	if errors.As(err, &se) {
		message = se.Message
		cause = se.Err
	}

	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("Request failed", zap.Error(err))
		body := gin.H{"error": message}
		if cause != nil && gin.Mode() != gin.ReleaseMode {
			body["details"] = cause.Error()
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{"error": message})
}

func invalidRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
