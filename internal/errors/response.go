package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Respond translates err and writes it. Unrecognised errors are logged with the
// request logger and answered with a generic message.
func Respond(c *gin.Context, err error) {
	appErr := Translate(err)
	if appErr == nil {
		appErr = Internal()
	}

	if appErr.Status >= http.StatusInternalServerError {
		requestLogger(c).Error("Unhandled error", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	}

	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	})
}

// RespondWithError writes an error that was decided in the handler itself
func RespondWithError(c *gin.Context, status int, code, message string) {
	Respond(c, New(status, code, message))
}

// NoRoute answers unmatched routes
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"message": "Not Found - " + c.Request.URL.Path,
			"code":    RouteNotFound,
		},
	})
}

func requestLogger(c *gin.Context) *logger.Logger {
	if l, ok := c.Get("logger"); ok {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
