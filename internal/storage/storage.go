package storage

import (
	"context"
	"time"
)

// Provider is the set of read-only calls the presign pipeline makes against
// an object storage service. Errors returned by every method are wrapped with
// one of the sentinel errors in this package so callers can classify them
// with errors.Is.
type Provider interface {
	// ProbeBucket reports whether bucket exists and is accessible with the
	// ambient credentials. A nil error means accessible.
	ProbeBucket(ctx context.Context, bucket string) error

	// ProbeObject reports whether key exists in bucket and is accessible.
	ProbeObject(ctx context.Context, bucket, key string) error

	// ListBuckets returns the buckets owned by the caller.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// SignGetURL returns a URL that authorises a GET of key in bucket for
	// ttl, without further credentials.
	SignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// BucketInfo describes a bucket returned by ListBuckets.
type BucketInfo struct {
	// Name is the bucket name.
	Name string

	// CreatedAt is when the bucket was created. It is the zero value when the
	// backend does not report it.
	CreatedAt time.Time
}
