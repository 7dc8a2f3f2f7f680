// Package reduction describes array-reduction requests and builds their
// JSON payloads.
package reduction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Dtypes lists the element types supported by the active storage server.
// Requests are deliberately not validated against this set: unknown dtypes
// are passed through untouched so server-side validation can be exercised.
var Dtypes = []string{"int32", "int64", "uint32", "uint64", "float32", "float64"}

// Compression identifies a compression algorithm applied to the stored data.
type Compression struct {
	ID     string
	Params map[string]interface{}
}

// Filter identifies a filter applied to the stored data before compression.
type Filter struct {
	ID          string
	ElementSize int
}

// Request is an immutable description of one reduction query. It is built
// once per invocation and re-serialized for every dispatched request.
type Request struct {
	Source      string
	Bucket      string
	Object      string
	Dtype       string
	ByteOrder   string // "big" or "little", optional
	Offset      *int64
	Size        *int64
	Shape       []int64
	Axis        json.RawMessage
	Order       string // "C" or "F", defaults to "C", not validated
	Selection   json.RawMessage
	Compression *Compression
	Shuffle     bool
	Missing     *Missing
}

// ValidationError reports an invalid request field, detected before any
// network activity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// ShuffleElementSize derives the byte-shuffle element size from the dtype
// name: 4 bytes for 32-bit dtypes, 8 bytes otherwise.
func ShuffleElementSize(dtype string) int {
	if strings.Contains(dtype, "32") {
		return 4
	}
	return 8
}

// Build produces the JSON-serializable request payload. Fields whose value
// was not supplied are omitted entirely.
func (r *Request) Build() (map[string]interface{}, error) {
	if r.Missing != nil {
		if err := r.Missing.Validate(); err != nil {
			return nil, err
		}
	}

	order := r.Order
	if order == "" {
		order = "C"
	}

	payload := map[string]interface{}{
		"source": r.Source,
		"bucket": r.Bucket,
		"object": r.Object,
		"dtype":  r.Dtype,
		"order":  order,
	}
	if r.ByteOrder != "" {
		payload["byte_order"] = r.ByteOrder
	}
	if r.Offset != nil {
		payload["offset"] = *r.Offset
	}
	if r.Size != nil {
		payload["size"] = *r.Size
	}
	if r.Shape != nil {
		payload["shape"] = r.Shape
	}
	if r.Axis != nil {
		payload["axis"] = r.Axis
	}
	if r.Selection != nil {
		payload["selection"] = r.Selection
	}
	if r.Compression != nil {
		compression := map[string]interface{}{"id": r.Compression.ID}
		if r.Compression.Params != nil {
			compression["params"] = r.Compression.Params
		}
		payload["compression"] = compression
	}
	if r.Shuffle {
		payload["filters"] = []interface{}{
			map[string]interface{}{
				"id":           "shuffle",
				"element_size": ShuffleElementSize(r.Dtype),
			},
		}
	}
	if r.Missing != nil {
		payload["missing"] = r.Missing.encode()
	}
	return payload, nil
}

// ParseNumber parses a numeric string as an int64 when the value is lossless,
// falling back to float64.
func ParseNumber(s string) (interface{}, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// ParseShape parses a JSON-encoded shape, e.g. "[20, 5]".
func ParseShape(s string) ([]int64, error) {
	var shape []int64
	if err := json.Unmarshal([]byte(s), &shape); err != nil {
		return nil, fmt.Errorf("invalid shape %q: %w", s, err)
	}
	for _, dim := range shape {
		if dim < 0 {
			return nil, &ValidationError{Field: "shape", Message: "dimensions must be non-negative"}
		}
	}
	return shape, nil
}

// ParseJSON validates a JSON-encoded selection or axis supplied as a string
// at the CLI boundary. The structure is opaque to the client.
func ParseJSON(field, s string) (json.RawMessage, error) {
	if !json.Valid([]byte(s)) {
		return nil, &ValidationError{Field: field, Message: "not valid JSON: " + s}
	}
	return json.RawMessage(s), nil
}
