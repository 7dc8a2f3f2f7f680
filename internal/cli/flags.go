package cli

import (
	"github.com/spf13/cobra"

	"github.com/asbench/asbench/internal/reduction"
)

// addRequestFlags registers the reduction-request flag set shared by the
// request and bench commands.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "active storage server URL (required)")
	cmd.Flags().String("source", "", "URL of the backing object store (required)")
	cmd.Flags().String("username", "", "object store access key (required)")
	cmd.Flags().String("password", "", "object store secret key (required)")
	cmd.Flags().String("bucket", "", "object store bucket (required)")
	cmd.Flags().String("object", "", "object key (required)")
	cmd.Flags().String("dtype", "", "element dtype, e.g. uint32 (required)")
	cmd.Flags().String("byte-order", "", "element byte order: big or little")
	cmd.Flags().Int64("offset", -1, "byte offset of the slice in the object")
	cmd.Flags().Int64("size", -1, "byte length of the slice")
	cmd.Flags().String("shape", "", "array shape as JSON, e.g. [20,5]")
	cmd.Flags().String("order", "C", "array storage order")
	cmd.Flags().String("selection", "", "slice selection as JSON")
	cmd.Flags().String("compression", "", "compression algorithm id, e.g. gzip")
	cmd.Flags().Bool("shuffle", false, "data was stored with the byte-shuffle filter")
	cmd.Flags().String("missing-value", "", "single missing value")
	cmd.Flags().String("missing-values", "", "comma-separated missing values")
	cmd.Flags().String("valid-min", "", "minimum valid value")
	cmd.Flags().String("valid-max", "", "maximum valid value")
	cmd.Flags().String("valid-range", "", "valid range as min,max")
	cmd.Flags().String("cacert", "", "path to a CA bundle to trust instead of the system store")
	cmd.Flags().BoolP("verbose", "v", false, "verbose output")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

// markRequestFlagsRequired enforces the mandatory request flags. The bench
// command skips this because a plan file can supply them instead.
func markRequestFlagsRequired(cmd *cobra.Command) {
	for _, name := range []string{"server", "source", "username", "password", "bucket", "object", "dtype"} {
		cmd.MarkFlagRequired(name)
	}
}

// requestFromFlags builds the reduction request from the command's flags.
// The dtype and order values are passed through unvalidated.
func requestFromFlags(cmd *cobra.Command) (*reduction.Request, error) {
	req := &reduction.Request{}
	req.Source, _ = cmd.Flags().GetString("source")
	req.Bucket, _ = cmd.Flags().GetString("bucket")
	req.Object, _ = cmd.Flags().GetString("object")
	req.Dtype, _ = cmd.Flags().GetString("dtype")
	req.ByteOrder, _ = cmd.Flags().GetString("byte-order")
	req.Order, _ = cmd.Flags().GetString("order")
	req.Shuffle, _ = cmd.Flags().GetBool("shuffle")

	if cmd.Flags().Changed("offset") {
		offset, _ := cmd.Flags().GetInt64("offset")
		req.Offset = &offset
	}
	if cmd.Flags().Changed("size") {
		size, _ := cmd.Flags().GetInt64("size")
		req.Size = &size
	}
	if shape, _ := cmd.Flags().GetString("shape"); shape != "" {
		parsed, err := reduction.ParseShape(shape)
		if err != nil {
			return nil, err
		}
		req.Shape = parsed
	}
	if cmd.Flags().Lookup("axis") != nil {
		if axis, _ := cmd.Flags().GetString("axis"); axis != "" {
			parsed, err := reduction.ParseJSON("axis", axis)
			if err != nil {
				return nil, err
			}
			req.Axis = parsed
		}
	}
	if selection, _ := cmd.Flags().GetString("selection"); selection != "" {
		parsed, err := reduction.ParseJSON("selection", selection)
		if err != nil {
			return nil, err
		}
		req.Selection = parsed
	}
	if compression, _ := cmd.Flags().GetString("compression"); compression != "" {
		req.Compression = &reduction.Compression{ID: compression}
	}

	spec := reduction.MissingSpec{}
	spec.MissingValue, _ = cmd.Flags().GetString("missing-value")
	spec.MissingValues, _ = cmd.Flags().GetString("missing-values")
	spec.ValidMin, _ = cmd.Flags().GetString("valid-min")
	spec.ValidMax, _ = cmd.Flags().GetString("valid-max")
	spec.ValidRange, _ = cmd.Flags().GetString("valid-range")
	missing, err := spec.Parse()
	if err != nil {
		return nil, err
	}
	req.Missing = missing

	return req, nil
}
