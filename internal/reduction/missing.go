package reduction

import "strings"

// Missing describes how missing data is encoded in the stored array. Exactly
// one of the five policies may be set; Validate enforces the exclusion before
// any request is sent.
type Missing struct {
	MissingValue  interface{}
	MissingValues []interface{}
	ValidMin      interface{}
	ValidMax      interface{}
	ValidRange    []interface{}
}

// Validate returns a ValidationError unless exactly one policy is set.
func (m *Missing) Validate() error {
	set := 0
	if m.MissingValue != nil {
		set++
	}
	if m.MissingValues != nil {
		set++
	}
	if m.ValidMin != nil {
		set++
	}
	if m.ValidMax != nil {
		set++
	}
	if m.ValidRange != nil {
		set++
	}
	switch set {
	case 0:
		return &ValidationError{Field: "missing", Message: "no missing data policy set"}
	case 1:
		return nil
	default:
		return &ValidationError{Field: "missing", Message: "missing data policies are mutually exclusive"}
	}
}

func (m *Missing) encode() map[string]interface{} {
	switch {
	case m.MissingValue != nil:
		return map[string]interface{}{"missing_value": m.MissingValue}
	case m.MissingValues != nil:
		return map[string]interface{}{"missing_values": m.MissingValues}
	case m.ValidMin != nil:
		return map[string]interface{}{"valid_min": m.ValidMin}
	case m.ValidMax != nil:
		return map[string]interface{}{"valid_max": m.ValidMax}
	default:
		return map[string]interface{}{"valid_range": m.ValidRange}
	}
}

// MissingSpec carries the raw, string-valued missing-data fields from the
// CLI or a plan file before numeric parsing.
type MissingSpec struct {
	MissingValue  string
	MissingValues string // comma separated
	ValidMin      string
	ValidMax      string
	ValidRange    string // "min,max"
}

// Parse converts the raw values into a Missing policy. It returns (nil, nil) when
// no field is supplied and a ValidationError when more than one is.
func (s MissingSpec) Parse() (*Missing, error) {
	supplied := 0
	for _, v := range []string{s.MissingValue, s.MissingValues, s.ValidMin, s.ValidMax, s.ValidRange} {
		if v != "" {
			supplied++
		}
	}
	if supplied == 0 {
		return nil, nil
	}
	if supplied > 1 {
		return nil, &ValidationError{Field: "missing", Message: "missing data policies are mutually exclusive"}
	}

	missing := &Missing{}
	switch {
	case s.MissingValue != "":
		v, err := ParseNumber(s.MissingValue)
		if err != nil {
			return nil, &ValidationError{Field: "missing-value", Message: err.Error()}
		}
		missing.MissingValue = v
	case s.MissingValues != "":
		values, err := parseNumberList(s.MissingValues)
		if err != nil {
			return nil, &ValidationError{Field: "missing-values", Message: err.Error()}
		}
		missing.MissingValues = values
	case s.ValidMin != "":
		v, err := ParseNumber(s.ValidMin)
		if err != nil {
			return nil, &ValidationError{Field: "valid-min", Message: err.Error()}
		}
		missing.ValidMin = v
	case s.ValidMax != "":
		v, err := ParseNumber(s.ValidMax)
		if err != nil {
			return nil, &ValidationError{Field: "valid-max", Message: err.Error()}
		}
		missing.ValidMax = v
	case s.ValidRange != "":
		bounds, err := parseNumberList(s.ValidRange)
		if err != nil {
			return nil, &ValidationError{Field: "valid-range", Message: err.Error()}
		}
		if len(bounds) != 2 {
			return nil, &ValidationError{Field: "valid-range", Message: "expected 'min,max'"}
		}
		missing.ValidRange = bounds
	}
	return missing, nil
}

func parseNumberList(s string) ([]interface{}, error) {
	parts := strings.Split(s, ",")
	values := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		v, err := ParseNumber(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
