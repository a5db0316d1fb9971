package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    errors.Kind `json:"code,omitempty"`
}

// RespondWithSuccess sends {"success": true} merged with payload's keys.
func RespondWithSuccess(c *gin.Context, payload gin.H) {
	RespondWithStatus(c, http.StatusOK, payload)
}

// RespondWithStatus is RespondWithSuccess with an explicit status code.
func RespondWithStatus(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// RespondWithMessage sends a success envelope carrying only a message.
func RespondWithMessage(c *gin.Context, message string) {
	RespondWithSuccess(c, gin.H{"message": message})
}

// RespondWithError sends the error envelope for err and aborts the chain.
// Non-application errors are reported as internal failures without detail.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.As(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Kind,
	})
}

// RespondNotFound sends the envelope for an unmatched route.
func RespondNotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    errors.KindNotFound,
	})
}
