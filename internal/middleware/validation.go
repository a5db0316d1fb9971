package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

const DefaultMaxBodyBytes int64 = 1 << 20

// RequireJSON rejects request bodies that are not JSON or exceed maxBytes.
// Bodiless requests pass untouched.
func RequireJSON(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			abortWithError(c, errors.Validation(fmt.Sprintf("request body exceeds %d bytes", maxBytes), nil))
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "application/json" {
			abortWithError(c, errors.Validation("content type must be application/json", err))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
