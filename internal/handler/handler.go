// Package handler holds the helpers shared by the HTTP handlers in its
// subpackages.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
)

// Authorizer guards a route with the policy of an operation.
type Authorizer interface {
	Authorize(op middleware.Operation) gin.HandlerFunc
}
