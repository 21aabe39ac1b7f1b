package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected request field.
// Loc is the path to the field, starting at "body".
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var registerOnce sync.Once

// UseJSONFieldNames makes validator report fields by their json tag name
// instead of the Go struct field name.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// FieldErrors converts a bind error into per-field detail.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fromValidation(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return []FieldError{{
			Loc:  loc,
			Msg:  "value is not a valid " + typeErr.Type.String(),
			Type: "type_error",
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldError{{
			Loc:  []string{"body"},
			Msg:  "request body is not valid JSON",
			Type: "json_invalid",
		}}
	}

	return []FieldError{{
		Loc:  []string{"body"},
		Msg:  err.Error(),
		Type: "value_error",
	}}
}

func fromValidation(fe validator.FieldError) FieldError {
	loc := []string{"body", fe.Field()}
	if fe.Tag() == "required" {
		return FieldError{Loc: loc, Msg: "field required", Type: "missing"}
	}
	return FieldError{
		Loc:  loc,
		Msg:  "failed on the '" + fe.Tag() + "' rule",
		Type: fe.Tag(),
	}
}

// ValidationResponse writes 422 with the field-level detail of a bind error.
func ValidationResponse(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, ErrorBody{Detail: FieldErrors(err)})
}
