package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asbench/asbench/internal/sampledata"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Generate and upload sample data to an S3-compatible store",
	Long: `Generate sample arrays holding the sequence 0..N-1 for every supported
dtype, in every compression (none, gzip, zlib) and filter (none, shuffle)
combination, and upload them as objects named
data-<dtype>[-<compression>][-<filter>].dat. The bucket is created if it
does not exist.

Example usage with a local minio:

  asbench upload \
    --endpoint http://localhost:9000 \
    --access-key minioadmin --secret-key minioadmin`,
	Run: func(cmd *cobra.Command, args []string) {
		endpoint, _ := cmd.Flags().GetString("endpoint")
		accessKey, _ := cmd.Flags().GetString("access-key")
		secretKey, _ := cmd.Flags().GetString("secret-key")
		bucket, _ := cmd.Flags().GetString("bucket")
		numItems, _ := cmd.Flags().GetInt("num-items")

		uploader, err := sampledata.NewUploader(endpoint, accessKey, secretKey, bucket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		keys, err := uploader.UploadAll(context.Background(), numItems)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Data upload successful.")
		fmt.Println("Bucket contents:")
		for _, key := range keys {
			fmt.Printf("  %s/%s\n", bucket, key)
		}
	},
}

func init() {
	uploadCmd.Flags().String("endpoint", "http://localhost:9000", "object store endpoint")
	uploadCmd.Flags().String("access-key", "minioadmin", "object store access key")
	uploadCmd.Flags().String("secret-key", "minioadmin", "object store secret key")
	uploadCmd.Flags().String("bucket", "sample-data", "bucket to upload into")
	uploadCmd.Flags().Int("num-items", 10, "elements per sample array")
}
