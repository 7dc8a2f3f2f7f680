// Package benchconfig loads and validates YAML bench plan files.
package benchconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/asbench/asbench/internal/dispatch"
	"github.com/asbench/asbench/internal/reduction"
	"github.com/asbench/asbench/internal/transport"
)

// File is the YAML bench plan schema.
type File struct {
	Server    string `yaml:"server" json:"server"`
	Operation string `yaml:"operation" json:"operation"`

	NumRequests int    `yaml:"numRequests" json:"numRequests"`
	Strategy    string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	HTTP2       bool   `yaml:"http2,omitempty" json:"http2,omitempty"`
	Timeout     string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	CACert   string `yaml:"cacert,omitempty" json:"cacert,omitempty"`

	Request RequestConfig `yaml:"request" json:"request"`
}

// RequestConfig mirrors the reduction request fields. Shape, selection and
// axis are JSON-encoded strings, parsed at load time.
type RequestConfig struct {
	Source      string `yaml:"source" json:"source"`
	Bucket      string `yaml:"bucket" json:"bucket"`
	Object      string `yaml:"object" json:"object"`
	Dtype       string `yaml:"dtype" json:"dtype"`
	ByteOrder   string `yaml:"byteOrder,omitempty" json:"byteOrder,omitempty"`
	Offset      *int64 `yaml:"offset,omitempty" json:"offset,omitempty"`
	Size        *int64 `yaml:"size,omitempty" json:"size,omitempty"`
	Shape       string `yaml:"shape,omitempty" json:"shape,omitempty"`
	Axis        string `yaml:"axis,omitempty" json:"axis,omitempty"`
	Order       string `yaml:"order,omitempty" json:"order,omitempty"`
	Selection   string `yaml:"selection,omitempty" json:"selection,omitempty"`
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty"`
	Shuffle     bool   `yaml:"shuffle,omitempty" json:"shuffle,omitempty"`

	MissingValue  string `yaml:"missingValue,omitempty" json:"missingValue,omitempty"`
	MissingValues string `yaml:"missingValues,omitempty" json:"missingValues,omitempty"`
	ValidMin      string `yaml:"validMin,omitempty" json:"validMin,omitempty"`
	ValidMax      string `yaml:"validMax,omitempty" json:"validMax,omitempty"`
	ValidRange    string `yaml:"validRange,omitempty" json:"validRange,omitempty"`
}

const planSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["server", "operation", "username", "password", "request"],
  "properties": {
    "server": {"type": "string", "minLength": 1},
    "operation": {"type": "string", "minLength": 1},
    "numRequests": {"type": "integer", "minimum": 1},
    "strategy": {"enum": ["serial", "worker-pool", "gather"]},
    "concurrency": {"type": "integer", "minimum": 1},
    "http2": {"type": "boolean"},
    "timeout": {"type": "string"},
    "username": {"type": "string"},
    "password": {"type": "string"},
    "cacert": {"type": "string"},
    "request": {
      "type": "object",
      "required": ["source", "bucket", "object", "dtype"],
      "properties": {
        "source": {"type": "string", "minLength": 1},
        "bucket": {"type": "string", "minLength": 1},
        "object": {"type": "string", "minLength": 1},
        "dtype": {"type": "string", "minLength": 1},
        "byteOrder": {"enum": ["big", "little"]},
        "offset": {"type": "integer", "minimum": 0},
        "size": {"type": "integer", "minimum": 1},
        "shape": {"type": "string"},
        "axis": {"type": "string"},
        "order": {"type": "string"},
        "selection": {"type": "string"},
        "compression": {"type": "string"},
        "shuffle": {"type": "boolean"},
        "missingValue": {"type": "string"},
        "missingValues": {"type": "string"},
        "validMin": {"type": "string"},
        "validMax": {"type": "string"},
        "validRange": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("plan.schema.json", planSchema)

// Load reads, validates and parses a plan file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return Parse(data)
}

// Parse validates the YAML document against the plan schema before decoding
// it, so schema violations name the offending field.
func Parse(data []byte) (*File, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}

	// Round-trip through JSON so the schema validator sees canonical types.
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting plan file: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(jsonDoc, &generic); err != nil {
		return nil, fmt.Errorf("converting plan file: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	if file.NumRequests == 0 {
		file.NumRequests = 1
	}
	return &file, nil
}

// ToPlan converts the file into a dispatch plan.
func (f *File) ToPlan() (*dispatch.Plan, error) {
	strategy := dispatch.Type(f.Strategy)
	if f.Strategy == "" {
		strategy = dispatch.TypeSerial
	}

	var timeout time.Duration
	if f.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(f.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
	}

	return &dispatch.Plan{
		TargetURL:    transport.RequestURL(strings.TrimRight(f.Server, "/"), f.Operation),
		NumRequests:  f.NumRequests,
		Strategy:     strategy,
		Concurrency:  f.Concurrency,
		HTTP2:        f.HTTP2,
		RequireHTTP2: f.HTTP2,
		Username:     f.Username,
		Password:     f.Password,
		CACert:       f.CACert,
		Timeout:      timeout,
	}, nil
}

// ToRequest converts the file into a reduction request.
func (f *File) ToRequest() (*reduction.Request, error) {
	rc := f.Request
	req := &reduction.Request{
		Source:    rc.Source,
		Bucket:    rc.Bucket,
		Object:    rc.Object,
		Dtype:     rc.Dtype,
		ByteOrder: rc.ByteOrder,
		Offset:    rc.Offset,
		Size:      rc.Size,
		Order:     rc.Order,
		Shuffle:   rc.Shuffle,
	}
	if rc.Shape != "" {
		shape, err := reduction.ParseShape(rc.Shape)
		if err != nil {
			return nil, err
		}
		req.Shape = shape
	}
	if rc.Axis != "" {
		axis, err := reduction.ParseJSON("axis", rc.Axis)
		if err != nil {
			return nil, err
		}
		req.Axis = axis
	}
	if rc.Selection != "" {
		selection, err := reduction.ParseJSON("selection", rc.Selection)
		if err != nil {
			return nil, err
		}
		req.Selection = selection
	}
	if rc.Compression != "" {
		req.Compression = &reduction.Compression{ID: rc.Compression}
	}
	missing, err := reduction.MissingSpec{
		MissingValue:  rc.MissingValue,
		MissingValues: rc.MissingValues,
		ValidMin:      rc.ValidMin,
		ValidMax:      rc.ValidMax,
		ValidRange:    rc.ValidRange,
	}.Parse()
	if err != nil {
		return nil, err
	}
	req.Missing = missing
	return req, nil
}
