// Package storage provides read-only access checks and time-limited signed
// GET URLs over object storage. S3, S3 compatible servers (via MinIO) and
// Google Cloud Storage are supported behind the Provider interface; the
// interface allows fake implementations for testing.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSProvider implements Provider using Google Cloud Storage.
type GCSProvider struct {
	client  *gcs.Client
	project string
	now     func() time.Time
}

// NewGCSProvider creates a GCSProvider. opts are passed through to the
// underlying GCS client after any derived from cfg, allowing credential
// injection.
func NewGCSProvider(ctx context.Context, cfg Config, opts ...option.ClientOption) (*GCSProvider, error) {
	if cfg.CredentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}, opts...)
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCS client: %v", ErrInvalidConfig, err)
	}
	return &GCSProvider{client: client, project: cfg.Project, now: time.Now}, nil
}

func (p *GCSProvider) ProbeBucket(ctx context.Context, bucket string) error {
	if _, err := p.client.Bucket(bucket).Attrs(ctx); err != nil {
		return classifyGCSError(err, ErrRequestFailed)
	}
	return nil
}

func (p *GCSProvider) ProbeObject(ctx context.Context, bucket, key string) error {
	if _, err := p.client.Bucket(bucket).Object(key).Attrs(ctx); err != nil {
		return classifyGCSError(err, ErrRequestFailed)
	}
	return nil
}

// ListBuckets lists the buckets of the configured project. GCS scopes bucket
// listings to a project rather than to the caller, so a project is required.
func (p *GCSProvider) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	if p.project == "" {
		return nil, fmt.Errorf("%w: project is required to list GCS buckets", ErrInvalidConfig)
	}

	var buckets []BucketInfo
	it := p.client.Buckets(ctx, p.project)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classifyGCSError(err, ErrRequestFailed)
		}
		buckets = append(buckets, BucketInfo{Name: attrs.Name, CreatedAt: attrs.Created})
	}
	return buckets, nil
}

// SignGetURL creates a V4 signed URL. The signing identity is taken from the
// client credentials.
func (p *GCSProvider) SignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	signedURL, err := p.client.Bucket(bucket).SignedURL(key, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: p.now().Add(ttl),
		Scheme:  gcs.SigningSchemeV4,
	})
	if err != nil {
		return "", classifyGCSError(err, ErrPresignFailed)
	}
	return signedURL, nil
}

// Ensure GCSProvider implements Provider.
var _ Provider = (*GCSProvider)(nil)
