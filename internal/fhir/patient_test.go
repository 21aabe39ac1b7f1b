package fhir

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntakePatient(t *testing.T) {
	p, err := NewIntakePatient(34, "Jane Roe")
	require.NoError(t, err)

	assert.Equal(t, "Patient", p.ResourceType)
	require.Len(t, p.Identifier, 1)
	assert.Equal(t, PatientIDSystem, p.Identifier[0].System)
	assert.Equal(t, "34", p.Identifier[0].Value)
	require.Len(t, p.Name, 1)
	assert.Equal(t, "Jane Roe", p.Name[0].Text)
}

func TestNewIntakePatient_ZeroAndNegativeAges(t *testing.T) {
	p, err := NewIntakePatient(0, "Baby Doe")
	require.NoError(t, err)
	assert.Equal(t, "0", p.Identifier[0].Value)

	p, err = NewIntakePatient(-3, "Odd Input")
	require.NoError(t, err)
	assert.Equal(t, "-3", p.Identifier[0].Value)
}

func TestPatientJSON_Canonical(t *testing.T) {
	p, err := NewIntakePatient(34, "Jane Roe")
	require.NoError(t, err)

	data, err := p.JSON()
	require.NoError(t, err)

	want := `{"resourceType":"Patient","identifier":[{"system":"http://example.com/patient-ids","value":"34"}],"name":[{"text":"Jane Roe"}]}`
	assert.Equal(t, want, string(data))

	again, err := p.JSON()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestPatientJSON_DoesNotEscapeHTML(t *testing.T) {
	p, err := NewIntakePatient(50, "Smith & <Sons>")
	require.NoError(t, err)

	data, err := p.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text":"Smith & <Sons>"`)

	var decoded Patient
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Smith & <Sons>", decoded.Name[0].Text)
}

func TestNewIntakePatient_RejectsInvalidName(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"control char":  "Jane\x00Roe",
		"bell":          "Jane\aRoe",
		"invalid utf-8": "Jane\xffRoe",
		"too large":     strings.Repeat("a", maxStringSize+1),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewIntakePatient(40, input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidElement))
			assert.Contains(t, err.Error(), "name[0].text")
		})
	}
}

func TestNewIntakePatient_AllowsWhitespaceControls(t *testing.T) {
	_, err := NewIntakePatient(40, "Jane\tRoe\r\n")
	assert.NoError(t, err)
}

func TestValidate_IdentifierSystemMustBeAbsolute(t *testing.T) {
	p := &Patient{
		ResourceType: ResourceTypePatient,
		Identifier:   []Identifier{{System: "patient-ids", Value: "1"}},
	}
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidElement)
	assert.Contains(t, err.Error(), "identifier[0].system")
}

func TestValidate_WrongResourceType(t *testing.T) {
	p := &Patient{ResourceType: "Practitioner"}
	_, err := p.JSON()
	assert.ErrorIs(t, err, ErrInvalidElement)
}

func TestValidate_EmptyGivenRejected(t *testing.T) {
	p := &Patient{
		ResourceType: ResourceTypePatient,
		Name:         []HumanName{{Family: "Roe", Given: []string{"Jane", ""}}},
	}
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidElement)
	assert.Contains(t, err.Error(), "name[0].given[1]")
}

func TestValidate_EmptyHumanNameRejected(t *testing.T) {
	p := &Patient{
		ResourceType: ResourceTypePatient,
		Name:         []HumanName{{}},
	}
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidElement)
	assert.Contains(t, err.Error(), "name[0]")

	_, err = p.JSON()
	assert.ErrorIs(t, err, ErrInvalidElement)
}

func TestNewIntakePatient_EmptyNameNeverSerializes(t *testing.T) {
	p, err := NewIntakePatient(40, "")
	require.ErrorIs(t, err, ErrInvalidElement)
	assert.Nil(t, p)
}
