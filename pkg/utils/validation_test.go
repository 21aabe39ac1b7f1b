package utils

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" binding:"required"`
	Count *int   `json:"count" binding:"required"`
	Code  string `json:"code" binding:"omitempty,len=3"`
}

func TestFieldErrors_Validation(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&sample{Code: "toolong"})
	require.Error(t, err)

	got := FieldErrors(err)
	require.Len(t, got, 3)
	assert.Equal(t, FieldError{Loc: []string{"body", "name"}, Msg: "field required", Type: "missing"}, got[0])
	assert.Equal(t, []string{"body", "count"}, got[1].Loc)
	assert.Equal(t, "len", got[2].Type)
	assert.Equal(t, []string{"body", "code"}, got[2].Loc)
}

func TestFieldErrors_TypeMismatch(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"count":"thirty"}`), &s)
	require.Error(t, err)

	got := FieldErrors(err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"body", "count"}, got[0].Loc)
	assert.Equal(t, "type_error", got[0].Type)
	assert.Equal(t, "value is not a valid int", got[0].Msg)
}

func TestFieldErrors_InvalidJSON(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"count":`), &s)
	require.Error(t, err)
	assert.Equal(t, "json_invalid", FieldErrors(err)[0].Type)

	assert.Equal(t, "json_invalid", FieldErrors(io.EOF)[0].Type)
}

func TestFieldErrors_Other(t *testing.T) {
	got := FieldErrors(errors.New("invalid request"))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"body"}, got[0].Loc)
	assert.Equal(t, "invalid request", got[0].Msg)
}
