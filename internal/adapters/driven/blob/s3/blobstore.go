// Package s3 provides an S3-compatible blob store for template files.
// It works against AWS S3 and self-hosted endpoints such as MinIO.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/templar-cli/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// Config holds the connection settings for an S3-compatible endpoint.
type Config struct {
	// EndpointURL overrides the AWS endpoint, e.g. "http://127.0.0.1:9000"
	// for a local MinIO server. Leave empty for AWS S3.
	EndpointURL string
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	// PublicBaseURL is the base URL recorded as the storage location of
	// uploaded objects. Defaults to the virtual-hosted AWS URL.
	PublicBaseURL string
}

// BlobStore uploads template files to an S3 bucket.
type BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewBlobStore creates a blob store for the configured bucket.
func NewBlobStore(cfg Config) (*BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	client := s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.EndpointURL != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.EndpointURL, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &BlobStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores the content under the given key and returns the public
// URL of the object. Re-uploading the same key overwrites the object,
// so repeated ingestion runs stay idempotent.
func (b *BlobStore) Upload(ctx context.Context, key string, content io.Reader) (string, error) {
	uploader := manager.NewUploader(b.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to bucket %s: %w", key, b.bucket, err)
	}
	return fmt.Sprintf("%s/%s", b.baseURL, key), nil
}
