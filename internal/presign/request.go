package presign

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultExpiration is the validity window used when none is given.
	DefaultExpiration = 60 * time.Minute

	// MaxExpiration is the longest validity accepted by SigV4 and GCS V4
	// signed URLs.
	MaxExpiration = 7 * 24 * time.Hour
)

var (
	ErrBucketRequired    = errors.New("bucket name is required")
	ErrObjectRequired    = errors.New("object key is required")
	ErrInvalidExpiration = errors.New("invalid expiration")
)

// Request describes a single presign run.
type Request struct {
	Bucket string
	Object string
	TTL    time.Duration
}

// Validate rejects malformed input before any call is made to the storage
// service.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return ErrBucketRequired
	}
	if strings.TrimSpace(r.Object) == "" {
		return ErrObjectRequired
	}
	_, err := normalizeTTL(r.TTL)
	return err
}

// ExpiresIn converts a validity window given in minutes to a duration,
// saturating at the bounds of time.Duration instead of wrapping.
func ExpiresIn(minutes int) time.Duration {
	const limit = math.MaxInt64 / int64(time.Minute)

	m := int64(minutes)
	switch {
	case m > limit:
		return time.Duration(math.MaxInt64)
	case m < -limit:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(m) * time.Minute
}

// normalizeTTL truncates ttl to whole seconds, the unit signed URLs carry,
// and checks it lies within (0, MaxExpiration].
func normalizeTTL(ttl time.Duration) (time.Duration, error) {
	seconds := int64(ttl / time.Second)
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: must be at least 1s, got %s", ErrInvalidExpiration, ttl)
	}
	normalized := time.Duration(seconds) * time.Second
	if normalized > MaxExpiration {
		return 0, fmt.Errorf("%w: %s exceeds the maximum of %s", ErrInvalidExpiration, ttl, MaxExpiration)
	}
	return normalized, nil
}
