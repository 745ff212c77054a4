// Package storage publishes run artifacts to object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// S3Options configures an S3 (or S3-compatible) uploader. Credentials come
// from the default AWS chain (AWS_ACCESS_KEY_ID, profiles, instance roles).
type S3Options struct {
	Bucket         string
	Region         string
	Endpoint       string
	Prefix         string
	ForcePathStyle bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// S3 uploads objects under a fixed key prefix.
type S3 struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3 creates an uploader for opts.Bucket.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return newS3(client, opts), nil
}

func newS3(client putObjectAPI, opts S3Options) *S3 {
	return &S3{client: client, bucket: opts.Bucket, prefix: opts.Prefix}
}

// Upload writes body to prefix/key.
func (s *S3) Upload(ctx context.Context, key string, body io.Reader) error {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(key)),
		Body:   body,
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3: upload %s: %w", key, err)
	}
	return nil
}

// Key returns the full object key for key.
func (s *S3) Key(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
