package sampledata_test

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"testing"

	"github.com/asbench/asbench/internal/sampledata"
)

func TestGenerateUint32(t *testing.T) {
	data, err := sampledata.Generate("uint32", 3)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("Generate(uint32, 3) = %v, want %v", data, want)
	}
}

func TestGenerateFloat64(t *testing.T) {
	data, err := sampledata.Generate("float64", 2)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	// 0.0 and 1.0 as IEEE 754 little-endian doubles.
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xf0, 0x3f}
	if !bytes.Equal(data, want) {
		t.Errorf("Generate(float64, 2) = %v, want %v", data, want)
	}
}

func TestGenerateUnknownDtype(t *testing.T) {
	if _, err := sampledata.Generate("complex64", 1); err == nil {
		t.Error("unknown dtype not rejected")
	}
}

func TestShuffleTransposesElementBytes(t *testing.T) {
	// Three 4-byte elements: the shuffled layout stores first bytes of every
	// element, then second bytes, and so on.
	data := []byte{
		0xa0, 0xa1, 0xa2, 0xa3,
		0xb0, 0xb1, 0xb2, 0xb3,
		0xc0, 0xc1, 0xc2, 0xc3,
	}
	want := []byte{
		0xa0, 0xb0, 0xc0,
		0xa1, 0xb1, 0xc1,
		0xa2, 0xb2, 0xc2,
		0xa3, 0xb3, 0xc3,
	}
	got := sampledata.Shuffle(data, 4)
	if !bytes.Equal(got, want) {
		t.Errorf("Shuffle = %v, want %v", got, want)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	original, err := sampledata.Generate("int64", 10)
	if err != nil {
		t.Fatal(err)
	}

	gz, err := sampledata.Compress(original, "gzip")
	if err != nil {
		t.Fatalf("gzip Compress error: %v", err)
	}
	gzReader, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		t.Fatalf("gzip output unreadable: %v", err)
	}
	decoded, err := io.ReadAll(gzReader)
	if err != nil || !bytes.Equal(decoded, original) {
		t.Errorf("gzip round trip failed: %v", err)
	}

	zl, err := sampledata.Compress(original, "zlib")
	if err != nil {
		t.Fatalf("zlib Compress error: %v", err)
	}
	zlReader, err := zlib.NewReader(bytes.NewReader(zl))
	if err != nil {
		t.Fatalf("zlib output unreadable: %v", err)
	}
	decoded, err = io.ReadAll(zlReader)
	if err != nil || !bytes.Equal(decoded, original) {
		t.Errorf("zlib round trip failed: %v", err)
	}

	if _, err := sampledata.Compress(original, "zstd"); err == nil {
		t.Error("unknown compression not rejected")
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		dtype, compression, filter string
		want                       string
	}{
		{"uint32", "", "", "data-uint32.dat"},
		{"int64", "gzip", "", "data-int64-gzip.dat"},
		{"float32", "", "shuffle", "data-float32-shuffle.dat"},
		{"float64", "zlib", "shuffle", "data-float64-zlib-shuffle.dat"},
	}
	for _, tt := range tests {
		if got := sampledata.ObjectName(tt.dtype, tt.compression, tt.filter); got != tt.want {
			t.Errorf("ObjectName(%s, %s, %s) = %s, want %s", tt.dtype, tt.compression, tt.filter, got, tt.want)
		}
	}
}

func TestEncodeShuffledAndCompressed(t *testing.T) {
	data, err := sampledata.Encode("uint32", "gzip", "shuffle", 4)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Encode output is not gzip: %v", err)
	}
	decoded, err := io.ReadAll(gzReader)
	if err != nil {
		t.Fatal(err)
	}

	raw, _ := sampledata.Generate("uint32", 4)
	want := sampledata.Shuffle(raw, 4)
	if !bytes.Equal(decoded, want) {
		t.Errorf("Encode = %v, want shuffled sequence %v", decoded, want)
	}
}
