package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAge_UnmarshalAccepted(t *testing.T) {
	cases := map[string]int{
		`34`:     34,
		`0`:      0,
		`-3`:     -3,
		`"34"`:   34,
		`" 34 "`: 34,
		`34.0`:   34,
		`1e2`:    100,
	}
	for raw, want := range cases {
		var a Age
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.Equal(t, Age(want), a, raw)
	}
}

func TestAge_UnmarshalRejected(t *testing.T) {
	for _, raw := range []string{`"thirty"`, `34.5`, `true`, `{}`, `[]`, `""`, `1e20`} {
		var a Age
		err := json.Unmarshal([]byte(raw), &a)
		require.Error(t, err, raw)

		var typeErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &typeErr, raw)
	}
}

func TestCreatePatientInput_AgeFieldInError(t *testing.T) {
	var in CreatePatientInput
	err := json.Unmarshal([]byte(`{"name":"Jane","age":"thirty","diagnosis":"flu"}`), &in)

	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "age", typeErr.Field)
	assert.Equal(t, "int", typeErr.Type.String())
}

func TestCreatePatientInput_NullAgeLeavesNil(t *testing.T) {
	var in CreatePatientInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Jane","age":null}`), &in))
	assert.Nil(t, in.Age)
}
