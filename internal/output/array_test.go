package output_test

import (
	"net/http"
	"testing"

	"github.com/asbench/asbench/internal/output"
)

func resultHeaders(dtype, shape, count string) http.Header {
	h := http.Header{}
	h.Set(output.HeaderDtype, dtype)
	if shape != "" {
		h.Set(output.HeaderShape, shape)
	}
	if count != "" {
		h.Set(output.HeaderCount, count)
	}
	return h
}

func TestDecodeArrayUint32(t *testing.T) {
	body := []byte{45, 0, 0, 0}
	arr, err := output.DecodeArray(resultHeaders("uint32", "[]", "[10]"), body)
	if err != nil {
		t.Fatalf("DecodeArray error: %v", err)
	}
	if arr.Dtype != "uint32" {
		t.Errorf("Dtype = %s", arr.Dtype)
	}
	if len(arr.Values) != 1 || arr.Values[0] != uint32(45) {
		t.Errorf("Values = %v", arr.Values)
	}
	if len(arr.Counts) != 1 || arr.Counts[0] != 10 {
		t.Errorf("Counts = %v", arr.Counts)
	}
	if got := arr.String(); got != "[45]" {
		t.Errorf("String() = %q", got)
	}
}

func TestDecodeArrayFloat64(t *testing.T) {
	// 1.5 as a little-endian IEEE 754 double.
	body := []byte{0, 0, 0, 0, 0, 0, 0xf8, 0x3f}
	arr, err := output.DecodeArray(resultHeaders("float64", "", ""), body)
	if err != nil {
		t.Fatalf("DecodeArray error: %v", err)
	}
	if len(arr.Values) != 1 || arr.Values[0] != 1.5 {
		t.Errorf("Values = %v", arr.Values)
	}
	if got := arr.String(); got != "[1.5]" {
		t.Errorf("String() = %q", got)
	}
}

func TestDecodeArrayInt64Negative(t *testing.T) {
	body := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	arr, err := output.DecodeArray(resultHeaders("int64", "", ""), body)
	if err != nil {
		t.Fatal(err)
	}
	if arr.Values[0] != int64(-1) {
		t.Errorf("Values = %v", arr.Values)
	}
}

func TestDecodeArrayErrors(t *testing.T) {
	if _, err := output.DecodeArray(http.Header{}, nil); err == nil {
		t.Error("missing dtype header not rejected")
	}
	if _, err := output.DecodeArray(resultHeaders("uint32", "", ""), []byte{1, 2, 3}); err == nil {
		t.Error("ragged buffer not rejected")
	}
	if _, err := output.DecodeArray(resultHeaders("complex128", "", ""), []byte{1, 2, 3, 4, 5, 6, 7, 8}); err == nil {
		t.Error("undecodable dtype not rejected")
	}
}
