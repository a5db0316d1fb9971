// Package validator wires the domain enum checks into gin's binding engine
// and turns binding failures into validation errors.
package validator

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

var registerOnce sync.Once

// Register installs the custom tags (role, room_status, time_slot) and makes
// error fields report their JSON names. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*playground.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister(v, "role", func(fl playground.FieldLevel) bool {
			return model.Role(fl.Field().String()).Valid()
		})
		mustRegister(v, "room_status", func(fl playground.FieldLevel) bool {
			return model.RoomStatus(fl.Field().String()).Valid()
		})
		mustRegister(v, "time_slot", func(fl playground.FieldLevel) bool {
			return model.TimeSlot(fl.Field().String()).Valid()
		})
	})
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

var tagMessages = map[string]string{
	"required":    "is required",
	"min":         "is too short",
	"max":         "is too long",
	"datetime":    "must be a date in YYYY-MM-DD form",
	"role":        "must be one of doctor, nurse, technician, admin",
	"room_status": "must be one of available, occupied, maintenance",
	"time_slot":   "must be morning or afternoon",
}

// Translate converts an error from ShouldBind* into a validation AppError
// naming the offending JSON fields.
func Translate(err error) *errors.AppError {
	var verrs playground.ValidationErrors
	if stderrors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msg, ok := tagMessages[fe.Tag()]
			if !ok {
				msg = "failed " + fe.Tag() + " check"
			}
			if fe.Tag() == "min" || fe.Tag() == "max" {
				msg = fmt.Sprintf("%s (%s %s)", msg, fe.Tag(), fe.Param())
			}
			msgs = append(msgs, fe.Field()+" "+msg)
		}
		sort.Strings(msgs)
		return errors.Validation("invalid request: "+strings.Join(msgs, "; "), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &sizeErr):
		return errors.Validation(fmt.Sprintf("request body exceeds %d bytes", sizeErr.Limit), err)
	case stderrors.Is(err, io.EOF):
		return errors.Validation("request body is required", err)
	case stderrors.As(err, &syntaxErr):
		return errors.Validation("request body is not valid JSON", err)
	case stderrors.As(err, &typeErr):
		return errors.Validation(fmt.Sprintf("field %s has the wrong type", typeErr.Field), err)
	}
	return errors.Validation("invalid request", err)
}
