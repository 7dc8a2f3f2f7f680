// Package sampledata generates test arrays and uploads them to an
// S3-compatible object store for use as reduction inputs.
package sampledata

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"math"
)

// Dtypes lists the element types sample objects are generated for.
var Dtypes = []string{"int64", "int32", "float64", "float32", "uint64", "uint32"}

// Compressions and Filters list the encoding combinations uploaded for each
// dtype. The empty string means none.
var (
	Compressions = []string{"", "gzip", "zlib"}
	Filters      = []string{"", "shuffle"}
)

var dtypeSizes = map[string]int{
	"int32":   4,
	"uint32":  4,
	"float32": 4,
	"int64":   8,
	"uint64":  8,
	"float64": 8,
}

// ElementSize returns the byte width of a dtype.
func ElementSize(dtype string) (int, error) {
	size, ok := dtypeSizes[dtype]
	if !ok {
		return 0, fmt.Errorf("unknown dtype: %s", dtype)
	}
	return size, nil
}

// Generate returns the little-endian byte representation of the sequence
// 0..n-1 in the given dtype.
func Generate(dtype string, n int) ([]byte, error) {
	size, err := ElementSize(dtype)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, n*size)
	scratch := make([]byte, 8)
	for i := 0; i < n; i++ {
		switch dtype {
		case "int32", "uint32":
			binary.LittleEndian.PutUint32(scratch, uint32(i))
		case "int64", "uint64":
			binary.LittleEndian.PutUint64(scratch, uint64(i))
		case "float32":
			binary.LittleEndian.PutUint32(scratch, math.Float32bits(float32(i)))
		case "float64":
			binary.LittleEndian.PutUint64(scratch, math.Float64bits(float64(i)))
		}
		buf = append(buf, scratch[:size]...)
	}
	return buf, nil
}

// Shuffle applies the byte-shuffle filter: element bytes are transposed so
// the i-th byte of every element is stored contiguously. The data length must
// be a multiple of elementSize.
func Shuffle(data []byte, elementSize int) []byte {
	count := len(data) / elementSize
	out := make([]byte, len(data))
	for i := 0; i < count; i++ {
		for b := 0; b < elementSize; b++ {
			out[b*count+i] = data[i*elementSize+b]
		}
	}
	return out
}

// Compress encodes data with the named algorithm: "", "gzip" or "zlib".
func Compress(data []byte, alg string) ([]byte, error) {
	switch alg {
	case "":
		return data, nil
	case "gzip":
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "zlib":
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression: %s", alg)
	}
}

// ObjectName builds the object key for one dtype/compression/filter
// combination, e.g. "data-uint32-gzip-shuffle.dat".
func ObjectName(dtype, compression, filter string) string {
	name := "data-" + dtype
	if compression != "" {
		name += "-" + compression
	}
	if filter != "" {
		name += "-" + filter
	}
	return name + ".dat"
}

// Encode produces the stored bytes for one combination: generate, shuffle,
// then compress, matching the server's decode order in reverse.
func Encode(dtype, compression, filter string, n int) ([]byte, error) {
	data, err := Generate(dtype, n)
	if err != nil {
		return nil, err
	}
	if filter == "shuffle" {
		size, err := ElementSize(dtype)
		if err != nil {
			return nil, err
		}
		data = Shuffle(data, size)
	}
	return Compress(data, compression)
}
