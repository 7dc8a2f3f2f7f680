package benchconfig_test

import (
	"strings"
	"testing"

	"github.com/asbench/asbench/internal/benchconfig"
	"github.com/asbench/asbench/internal/dispatch"
)

const validPlan = `
server: http://localhost:8080
operation: sum
numRequests: 50
strategy: worker-pool
concurrency: 8
username: minioadmin
password: minioadmin
request:
  source: http://localhost:9000
  bucket: sample-data
  object: data-uint32-gzip.dat
  dtype: uint32
  shape: "[10]"
  compression: gzip
  shuffle: true
  missingValue: "-1"
`

func TestParseValidPlan(t *testing.T) {
	file, err := benchconfig.Parse([]byte(validPlan))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	plan, err := file.ToPlan()
	if err != nil {
		t.Fatalf("ToPlan error: %v", err)
	}
	if plan.TargetURL != "http://localhost:8080/v1/sum/" {
		t.Errorf("TargetURL = %s", plan.TargetURL)
	}
	if plan.NumRequests != 50 {
		t.Errorf("NumRequests = %d", plan.NumRequests)
	}
	if plan.Strategy != dispatch.TypeWorkerPool || plan.Concurrency != 8 {
		t.Errorf("strategy = %s/%d", plan.Strategy, plan.Concurrency)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("plan invalid: %v", err)
	}

	req, err := file.ToRequest()
	if err != nil {
		t.Fatalf("ToRequest error: %v", err)
	}
	if req.Dtype != "uint32" || !req.Shuffle {
		t.Errorf("request = %+v", req)
	}
	if len(req.Shape) != 1 || req.Shape[0] != 10 {
		t.Errorf("shape = %v", req.Shape)
	}
	if req.Compression == nil || req.Compression.ID != "gzip" {
		t.Errorf("compression = %+v", req.Compression)
	}
	if req.Missing == nil || req.Missing.MissingValue != int64(-1) {
		t.Errorf("missing = %+v", req.Missing)
	}
}

func TestParseDefaults(t *testing.T) {
	minimal := `
server: http://localhost:8080
operation: min
username: u
password: p
request:
  source: http://localhost:9000
  bucket: b
  object: o
  dtype: int64
`
	file, err := benchconfig.Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	plan, err := file.ToPlan()
	if err != nil {
		t.Fatal(err)
	}
	if plan.NumRequests != 1 {
		t.Errorf("NumRequests default = %d, want 1", plan.NumRequests)
	}
	if plan.Strategy != dispatch.TypeSerial {
		t.Errorf("Strategy default = %s, want serial", plan.Strategy)
	}
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing server", strings.Replace(validPlan, "server: http://localhost:8080\n", "", 1)},
		{"unknown strategy", strings.Replace(validPlan, "strategy: worker-pool", "strategy: fibers", 1)},
		{"zero requests", strings.Replace(validPlan, "numRequests: 50", "numRequests: 0", 1)},
		{"bad byte order", strings.Replace(validPlan, "dtype: uint32", "dtype: uint32\n  byteOrder: middle", 1)},
		{"not yaml at all", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := benchconfig.Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse accepted an invalid plan")
			}
		})
	}
}

func TestParseConflictingMissingPolicies(t *testing.T) {
	conflicting := strings.Replace(validPlan, `missingValue: "-1"`, "missingValue: \"-1\"\n  validMin: \"0\"", 1)
	file, err := benchconfig.Parse([]byte(conflicting))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := file.ToRequest(); err == nil {
		t.Error("conflicting missing policies accepted")
	}
}
