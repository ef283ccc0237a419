package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOProvider implements Provider against any S3 compatible server using
// the MinIO client.
type MinIOProvider struct {
	client *minio.Client
}

// NewMinIOProvider creates a MinIOProvider for cfg.Endpoint. Static keys are
// used when configured, otherwise the AWS and MinIO environment variables and
// credential files are consulted in turn.
func NewMinIOProvider(cfg Config) (*MinIOProvider, error) {
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.FileMinioClient{},
	})
	if cfg.AccessKeyID != "" {
		creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create minio client: %v", ErrInvalidConfig, err)
	}

	return &MinIOProvider{client: client}, nil
}

// ProbeBucket checks the bucket with BucketExists. MinIO reports a missing
// bucket as false rather than as an error.
func (p *MinIOProvider) ProbeBucket(ctx context.Context, bucket string) error {
	exists, err := p.client.BucketExists(ctx, bucket)
	if err != nil {
		return classifyMinIOError(err, ErrRequestFailed)
	}
	if !exists {
		return fmt.Errorf("%w: bucket %q does not exist", ErrNotFound, bucket)
	}
	return nil
}

// ProbeObject stats the object.
func (p *MinIOProvider) ProbeObject(ctx context.Context, bucket, key string) error {
	_, err := p.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return classifyMinIOError(err, ErrRequestFailed)
	}
	return nil
}

func (p *MinIOProvider) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	infos, err := p.client.ListBuckets(ctx)
	if err != nil {
		return nil, classifyMinIOError(err, ErrRequestFailed)
	}

	buckets := make([]BucketInfo, 0, len(infos))
	for _, b := range infos {
		buckets = append(buckets, BucketInfo{Name: b.Name, CreatedAt: b.CreationDate})
	}
	return buckets, nil
}

func (p *MinIOProvider) SignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := p.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", classifyMinIOError(err, ErrPresignFailed)
	}
	return u.String(), nil
}

// Ensure MinIOProvider implements Provider.
var _ Provider = (*MinIOProvider)(nil)
