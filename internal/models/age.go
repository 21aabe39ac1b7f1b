package models

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Age is an intake age. It decodes from a JSON integer, an integral number
// such as 1e2 or 34.0, or a string of decimal digits such as "34".
// Fractions, booleans and free text are type errors.
type Age int

func (a *Age) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return ageTypeError("empty")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ageTypeError("string")
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return ageTypeError("string " + strconv.Quote(s))
		}
		*a = Age(n)
		return nil
	}

	if n, err := strconv.Atoi(string(raw)); err == nil {
		*a = Age(n)
		return nil
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return ageTypeError(jsonKind(raw))
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return ageTypeError("number " + string(raw))
	}
	*a = Age(int(f))
	return nil
}

func ageTypeError(value string) error {
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(0)}
}

func jsonKind(raw []byte) string {
	switch raw[0] {
	case 't', 'f':
		return "bool"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "value"
	}
}
