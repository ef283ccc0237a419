package presign

import (
	"context"
	"strings"
	"time"

	"github.com/tomasbasham/presign/internal/log"
	"github.com/tomasbasham/presign/internal/storage"
)

// SignedURL is a time-limited GET URL for an object.
type SignedURL struct {
	Bucket string
	Object string

	// URL authorises a GET of the object without further credentials.
	URL string

	// TTL is the validity window in whole seconds.
	TTL time.Duration

	// ExpiresAt is the signing instant plus TTL.
	ExpiresAt time.Time
}

// Signer produces signed GET URLs. It does not rely on a prior check and
// validates its own input.
type Signer struct {
	provider storage.Provider
	log      log.Logger
	now      func() time.Time
}

// NewSigner creates a Signer. A nil logger discards diagnostics.
func NewSigner(provider storage.Provider, logger log.Logger) *Signer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Signer{provider: provider, log: logger, now: time.Now}
}

// Sign asks the provider for a URL valid for ttl, truncated to whole
// seconds. Every call yields a URL valid from the moment of the call.
func (s *Signer) Sign(ctx context.Context, bucket, object string, ttl time.Duration) (*SignedURL, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, ErrBucketRequired
	}
	if strings.TrimSpace(object) == "" {
		return nil, ErrObjectRequired
	}
	ttl, err := normalizeTTL(ttl)
	if err != nil {
		return nil, err
	}

	signedAt := s.now()
	s.log.Debug("signing URL", "bucket", bucket, "object", object, "ttl_seconds", int64(ttl/time.Second))

	u, err := s.provider.SignGetURL(ctx, bucket, object, ttl)
	if err != nil {
		s.log.Debug("signing failed", "bucket", bucket, "object", object, "cause", err)
		return nil, &SigningError{Bucket: bucket, Object: object, cause: err}
	}

	return &SignedURL{
		Bucket:    bucket,
		Object:    object,
		URL:       u,
		TTL:       ttl,
		ExpiresAt: signedAt.Add(ttl),
	}, nil
}
