package output

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/asbench/asbench/internal/reduction"
)

// Response headers carrying the result array metadata.
const (
	HeaderDtype = "x-activestorage-dtype"
	HeaderShape = "x-activestorage-shape"
	HeaderCount = "x-activestorage-count"
)

// Array is a reduction result reconstructed from the response headers and
// binary body.
type Array struct {
	Dtype  string
	Shape  []int64
	Counts []int64
	Values []interface{}
}

// DecodeArray rebuilds the typed result array from the three metadata
// headers and the little-endian binary buffer.
func DecodeArray(headers http.Header, body []byte) (*Array, error) {
	dtype := headers.Get(HeaderDtype)
	if dtype == "" {
		return nil, fmt.Errorf("missing %s header", HeaderDtype)
	}

	arr := &Array{Dtype: dtype}
	if s := headers.Get(HeaderShape); s != "" {
		shape, err := reduction.ParseShape(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s header: %w", HeaderShape, err)
		}
		arr.Shape = shape
	}
	if s := headers.Get(HeaderCount); s != "" {
		if err := json.Unmarshal([]byte(s), &arr.Counts); err != nil {
			return nil, fmt.Errorf("invalid %s header: %w", HeaderCount, err)
		}
	}

	values, err := decodeElements(dtype, body)
	if err != nil {
		return nil, err
	}
	arr.Values = values
	return arr, nil
}

func decodeElements(dtype string, buf []byte) ([]interface{}, error) {
	size := reduction.ShuffleElementSize(dtype)
	if len(buf)%size != 0 {
		return nil, fmt.Errorf("%d-byte buffer is not a whole number of %s elements", len(buf), dtype)
	}

	values := make([]interface{}, 0, len(buf)/size)
	for off := 0; off < len(buf); off += size {
		switch dtype {
		case "int32":
			values = append(values, int32(binary.LittleEndian.Uint32(buf[off:])))
		case "uint32":
			values = append(values, binary.LittleEndian.Uint32(buf[off:]))
		case "int64":
			values = append(values, int64(binary.LittleEndian.Uint64(buf[off:])))
		case "uint64":
			values = append(values, binary.LittleEndian.Uint64(buf[off:]))
		case "float32":
			values = append(values, math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
		case "float64":
			values = append(values, math.Float64frombits(binary.LittleEndian.Uint64(buf[off:])))
		default:
			return nil, fmt.Errorf("cannot decode dtype %s", dtype)
		}
	}
	return values, nil
}

// String renders the flat element sequence, e.g. "[0 1 2]".
func (a *Array) String() string {
	out := "["
	for i, v := range a.Values {
		if i > 0 {
			out += " "
		}
		switch n := v.(type) {
		case float32:
			out += strconv.FormatFloat(float64(n), 'g', -1, 32)
		case float64:
			out += strconv.FormatFloat(n, 'g', -1, 64)
		default:
			out += fmt.Sprintf("%d", v)
		}
	}
	return out + "]"
}
