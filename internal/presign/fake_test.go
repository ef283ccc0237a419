package presign

import (
	"context"
	"fmt"
	"time"

	"github.com/tomasbasham/presign/internal/storage"
)

// fakeProvider is an in-memory storage.Provider. Buckets map to their
// objects; denied lists names that exist but answer with access denied.
type fakeProvider struct {
	buckets map[string][]string
	denied  map[string]bool

	listErr error
	signErr error

	probedBuckets []string
	probedObjects []string
	listCalls     int
	signCalls     []signCall
}

type signCall struct {
	bucket, key string
	ttl         time.Duration
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		buckets: map[string][]string{
			"test-pre-bucket": {"test-object"},
			"private-bucket":  {"secret-object"},
		},
		denied: map[string]bool{
			"private-bucket": true,
		},
	}
}

func (f *fakeProvider) ProbeBucket(_ context.Context, bucket string) error {
	f.probedBuckets = append(f.probedBuckets, bucket)
	if f.denied[bucket] {
		return fmt.Errorf("%w: 403 Forbidden", storage.ErrAccessDenied)
	}
	if _, ok := f.buckets[bucket]; !ok {
		return fmt.Errorf("%w: 404 Not Found", storage.ErrNotFound)
	}
	return nil
}

func (f *fakeProvider) ProbeObject(_ context.Context, bucket, key string) error {
	f.probedObjects = append(f.probedObjects, key)
	if f.denied[key] {
		return fmt.Errorf("%w: 403 Forbidden", storage.ErrAccessDenied)
	}
	for _, k := range f.buckets[bucket] {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: 404 Not Found", storage.ErrNotFound)
}

func (f *fakeProvider) ListBuckets(context.Context) ([]storage.BucketInfo, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []storage.BucketInfo
	for name := range f.buckets {
		out = append(out, storage.BucketInfo{Name: name})
	}
	return out, nil
}

func (f *fakeProvider) SignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	f.signCalls = append(f.signCalls, signCall{bucket: bucket, key: key, ttl: ttl})
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://%s.example.com/%s?X-Amz-Expires=%d", bucket, key, int64(ttl/time.Second)), nil
}

var _ storage.Provider = (*fakeProvider)(nil)
