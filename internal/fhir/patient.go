// Package fhir holds the subset of FHIR R4 resources written by the intake
// service, with element validation and canonical JSON serialization.
package fhir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// PatientIDSystem is the identifier namespace stamped on every intake record.
const PatientIDSystem = "http://example.com/patient-ids"

// ResourceTypePatient is the resourceType of a Patient resource.
const ResourceTypePatient = "Patient"

// maxStringSize is the FHIR limit for a string primitive (1 MiB).
const maxStringSize = 1 << 20

// ErrInvalidElement is returned when a resource element breaks a FHIR datatype rule.
var ErrInvalidElement = errors.New("fhir: invalid element")

// Identifier is the FHIR Identifier datatype.
type Identifier struct {
	Use    string `json:"use,omitempty"`
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

// HumanName is the FHIR HumanName datatype.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Patient is a FHIR R4 Patient resource limited to the elements this service populates.
type Patient struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Name         []HumanName  `json:"name,omitempty"`
}

// NewIntakePatient builds the Patient resource for an intake submission.
//
// The identifier value is the decimal form of age. Ages are not unique, but
// existing rows already carry this value, so it is kept as-is.
func NewIntakePatient(age int, name string) (*Patient, error) {
	if err := validateString("name[0].text", name); err != nil {
		return nil, err
	}
	p := &Patient{
		ResourceType: ResourceTypePatient,
		Identifier: []Identifier{{
			System: PatientIDSystem,
			Value:  strconv.Itoa(age),
		}},
		Name: []HumanName{{Text: name}},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks every populated element against the FHIR primitive rules.
func (p *Patient) Validate() error {
	if p.ResourceType != ResourceTypePatient {
		return fmt.Errorf("%w: resourceType: expected %q, got %q", ErrInvalidElement, ResourceTypePatient, p.ResourceType)
	}
	for i, id := range p.Identifier {
		path := fmt.Sprintf("identifier[%d]", i)
		if id.System != "" {
			if err := validateURI(path+".system", id.System); err != nil {
				return err
			}
		}
		if err := validateOptional(path+".value", id.Value); err != nil {
			return err
		}
	}
	for i, n := range p.Name {
		path := fmt.Sprintf("name[%d]", i)
		if n.Text == "" && n.Family == "" && len(n.Given) == 0 {
			return fmt.Errorf("%w: %s: must have text, family or given", ErrInvalidElement, path)
		}
		if err := validateOptional(path+".text", n.Text); err != nil {
			return err
		}
		if err := validateOptional(path+".family", n.Family); err != nil {
			return err
		}
		for j, g := range n.Given {
			if err := validateString(fmt.Sprintf("%s.given[%d]", path, j), g); err != nil {
				return err
			}
		}
	}
	return nil
}

// JSON validates the resource and returns its canonical compact JSON form.
func (p *Patient) JSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("fhir: encode patient: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// validateOptional skips elements left empty, which are omitted on the wire.
func validateOptional(path, s string) error {
	if s == "" {
		return nil
	}
	return validateString(path, s)
}

func validateString(path, s string) error {
	if s == "" {
		return fmt.Errorf("%w: %s: empty string", ErrInvalidElement, path)
	}
	if len(s) > maxStringSize {
		return fmt.Errorf("%w: %s: exceeds %d bytes", ErrInvalidElement, path, maxStringSize)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s: invalid UTF-8", ErrInvalidElement, path)
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' && r != '\r' && r != '\n' {
			return fmt.Errorf("%w: %s: control character %U", ErrInvalidElement, path, r)
		}
	}
	return nil
}

func validateURI(path, s string) error {
	if err := validateString(path, s); err != nil {
		return err
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %s: not an absolute URI", ErrInvalidElement, path)
	}
	return nil
}
