package sampledata

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/asbench/asbench/pkg/log"
)

// Uploader writes sample objects to an S3-compatible store. Path-style
// addressing and a custom endpoint keep it MinIO-friendly.
type Uploader struct {
	s3     *s3.S3
	bucket string
}

// NewUploader creates an uploader for the given endpoint and bucket.
func NewUploader(endpoint, accessKey, secretKey, bucket string) (*Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"),
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(strings.HasPrefix(endpoint, "http://")),
	})
	if err != nil {
		return nil, fmt.Errorf("creating S3 session: %w", err)
	}
	return &Uploader{s3: s3.New(sess), bucket: bucket}, nil
}

// EnsureBucket creates the bucket if it does not already exist.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.s3.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				return nil
			}
		}
		return fmt.Errorf("creating bucket %s: %w", u.bucket, err)
	}
	return nil
}

// Put uploads one object.
func (u *Uploader) Put(ctx context.Context, key string, data []byte) error {
	_, err := u.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// UploadAll generates and uploads every dtype/compression/filter combination,
// each holding the sequence 0..numItems-1, and returns the object keys.
func (u *Uploader) UploadAll(ctx context.Context, numItems int) ([]string, error) {
	if err := u.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	var keys []string
	for _, compression := range Compressions {
		for _, filter := range Filters {
			for _, dtype := range Dtypes {
				key := ObjectName(dtype, compression, filter)
				data, err := Encode(dtype, compression, filter, numItems)
				if err != nil {
					return keys, err
				}
				if err := u.Put(ctx, key, data); err != nil {
					return keys, err
				}
				log.Debug().Str("key", key).Int("bytes", len(data)).Msg("uploaded object")
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}
