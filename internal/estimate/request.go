package estimate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SqftToSqm converts square feet to square meters.
const SqftToSqm = 0.092903

// AreaUnit is the unit the floor area was entered in.
type AreaUnit string

const (
	SquareMeters AreaUnit = "square-meters"
	SquareFeet   AreaUnit = "square-feet"
)

// ParseAreaUnit normalizes the accepted unit spellings. An empty unit means
// square meters.
func ParseAreaUnit(s string) (AreaUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqm", "m2", "square-meters", "square_meters", "squaremeters":
		return SquareMeters, true
	case "sqft", "ft2", "square-feet", "square_feet", "squarefeet":
		return SquareFeet, true
	default:
		return "", false
	}
}

// Value is a loosely typed numeric field as submitted by a form or JSON
// client. It holds the raw text; parsing happens in the engine so malformed
// input is rejected there rather than at decode time.
type Value string

// Number returns the Value for f.
func Number(f float64) Value {
	return Value(strconv.FormatFloat(f, 'f', -1, 64))
}

// Int returns the Value for n.
func Int(n int) Value {
	return Value(strconv.Itoa(n))
}

var errMissing = errors.New("missing")

// Float parses v as a finite number.
func (v Value) Float() (float64, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, errMissing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// IsZero reports whether no value was supplied.
func (v Value) IsZero() bool {
	return strings.TrimSpace(string(v)) == ""
}

// UnmarshalJSON accepts JSON numbers, strings and null.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = Value(strings.TrimSpace(str))
	default:
		*v = Value(s)
	}
	return nil
}

// MarshalJSON emits a number when v parses as one and a string otherwise.
func (v Value) MarshalJSON() ([]byte, error) {
	if f, err := v.Float(); err == nil {
		return json.Marshal(f)
	}
	if v.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

// Request is a single project estimate request.
type Request struct {
	Region               string `json:"region"`
	ProjectType          string `json:"projectType"`
	TotalFloorArea       Value  `json:"totalFloorArea"`
	AreaUnit             string `json:"areaUnit,omitempty"`
	NumberOfBathrooms    Value  `json:"numberOfBathrooms"`
	NumberOfFloors       Value  `json:"numberOfFloors"`
	FinishQuality        string `json:"finishQuality"`
	IncludeExternalWorks bool   `json:"includeExternalWorks"`

	UseCustomLandCost     bool  `json:"useCustomLandCost,omitempty"`
	CustomLandCost        Value `json:"customLandCost,omitempty"`
	UseCustomMaterialCost bool  `json:"useCustomMaterialCost,omitempty"`
	CustomMaterialCost    Value `json:"customMaterialCost,omitempty"`
	UseCustomLaborCost    bool  `json:"useCustomLaborCost,omitempty"`
	CustomLaborCost       Value `json:"customLaborCost,omitempty"`
}

// UnmarshalJSON also accepts preferredFinishQuality, the field name used by
// the estimator web form.
func (r *Request) UnmarshalJSON(b []byte) error {
	type Alias Request
	aux := struct {
		*Alias
		PreferredFinishQuality string `json:"preferredFinishQuality"`
	}{Alias: (*Alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.FinishQuality == "" {
		r.FinishQuality = aux.PreferredFinishQuality
	}
	return nil
}

// override returns the custom value when the flag is set and the value is a
// finite non-negative number.
func override(enabled bool, v Value) (float64, bool) {
	if !enabled {
		return 0, false
	}
	f, err := v.Float()
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// AreaSqm parses a floor area entered in unit and returns it in square meters.
func AreaSqm(area Value, unit string) (float64, error) {
	u, ok := ParseAreaUnit(unit)
	if !ok {
		return 0, &InputError{Details: []string{fmt.Sprintf("areaUnit %q must be square-meters or square-feet", unit)}}
	}
	f, err := area.Float()
	switch {
	case errors.Is(err, errMissing):
		return 0, &InputError{Details: []string{"totalFloorArea is required"}}
	case err != nil:
		return 0, &InputError{Details: []string{"totalFloorArea: " + err.Error()}}
	case f <= 0:
		return 0, &InputError{Details: []string{"totalFloorArea must be greater than 0"}}
	}
	if u == SquareFeet {
		return f * SqftToSqm, nil
	}
	return f, nil
}
