package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/validator"
)

// BindJSON decodes the request body into dst. On failure it records a
// validation error and returns false; the caller just returns.
func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Fail(c, validator.Translate(err))
		return false
	}
	return true
}

// Fail hands err to the error middleware.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// Caller returns the authenticated identity set by the auth middleware.
func Caller(c *gin.Context) *model.Identity {
	return middleware.IdentityFrom(c)
}

// YearMonth reads the :year and :month path parameters. Range checks are left
// to the services.
func YearMonth(c *gin.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, errors.Validation("year must be a number", err)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, errors.Validation("month must be a number", err)
	}
	return year, month, nil
}
