package presign

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomasbasham/presign/internal/storage"
)

func newTestPipeline(provider storage.Provider, out *bytes.Buffer) *Pipeline {
	return NewPipeline(
		NewChecker(provider, StrategyProbe, nil),
		newTestSigner(provider),
		NewReporter(out, false),
		nil,
	)
}

func TestPipelineAccessibleObject(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	provider := newFakeProvider()
	p := newTestPipeline(provider, &out)

	res, err := p.Run(context.Background(), Request{
		Bucket: "test-pre-bucket",
		Object: "test-object",
		TTL:    DefaultExpiration,
	})
	require.NoError(t, err)
	require.Equal(t, StateDone, p.State())

	require.Len(t, provider.signCalls, 1)
	require.NotEmpty(t, res.URL)
	require.Equal(t, fixedNow.Add(60*time.Minute), res.ExpiresAt)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "URL = "+res.URL, lines[0])
	require.Equal(t, "Valid until = "+res.ExpiresAt.Format(TimeLayout)+" (60 minutes)", lines[1])
}

func TestPipelineCheckFailuresNeverSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		bucket     string
		object     string
		wantAccess Access
		wantEntity Entity
		wantMsg    string
	}{
		{
			name:       "missing object",
			bucket:     "test-pre-bucket",
			object:     "missing-object",
			wantAccess: NotFound,
			wantEntity: EntityObject,
			wantMsg:    "object missing-object does not exist",
		},
		{
			name:       "missing bucket",
			bucket:     "nonexistent-bucket-xyz",
			object:     "test-object",
			wantAccess: NotFound,
			wantEntity: EntityBucket,
			wantMsg:    "bucket nonexistent-bucket-xyz does not exist",
		},
		{
			name:       "forbidden bucket",
			bucket:     "private-bucket",
			object:     "secret-object",
			wantAccess: Forbidden,
			wantEntity: EntityBucket,
			wantMsg:    "you do not have permission to access bucket private-bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			provider := newFakeProvider()
			p := newTestPipeline(provider, &out)

			res, err := p.Run(context.Background(), Request{Bucket: tt.bucket, Object: tt.object, TTL: time.Hour})
			require.Nil(t, res)
			require.EqualError(t, err, tt.wantMsg)

			var accessErr *AccessError
			require.True(t, errors.As(err, &accessErr))
			require.Equal(t, tt.wantAccess, accessErr.Access)
			require.Equal(t, tt.wantEntity, accessErr.Entity)

			require.Equal(t, StateFailed, p.State())
			require.Empty(t, provider.signCalls)
			require.Zero(t, out.Len(), "no URL may be printed")
		})
	}
}

func TestPipelineSigningFailure(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	provider := newFakeProvider()
	provider.signErr = fmt.Errorf("%w: credentials unavailable", storage.ErrPresignFailed)
	p := newTestPipeline(provider, &out)

	res, err := p.Run(context.Background(), Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: time.Hour})
	require.Nil(t, res)

	var signErr *SigningError
	require.True(t, errors.As(err, &signErr))
	require.Equal(t, StateFailed, p.State())
	require.Zero(t, out.Len())
}

func TestPipelineReportFailure(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	p := NewPipeline(
		NewChecker(provider, StrategyProbe, nil),
		newTestSigner(provider),
		NewReporter(failingWriter{}, false),
		nil,
	)

	_, err := p.Run(context.Background(), Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: time.Hour})
	require.Error(t, err)
	require.Equal(t, StateFailed, p.State())
}

func TestPipelineValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty bucket", Request{Object: "test-object", TTL: time.Hour}, ErrBucketRequired},
		{"empty object", Request{Bucket: "test-pre-bucket", TTL: time.Hour}, ErrObjectRequired},
		{"zero expiration", Request{Bucket: "test-pre-bucket", Object: "test-object"}, ErrInvalidExpiration},
		{"negative expiration", Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: ExpiresIn(-5)}, ErrInvalidExpiration},
		{"overflowing expiration", Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: ExpiresIn(math.MaxInt)}, ErrInvalidExpiration},
		{"negatively overflowing expiration", Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: ExpiresIn(math.MinInt)}, ErrInvalidExpiration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			provider := newFakeProvider()
			p := newTestPipeline(provider, &out)

			_, err := p.Run(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, StateStart, p.State())
			require.Empty(t, provider.probedBuckets)
			require.Empty(t, provider.signCalls)
		})
	}
}

func TestPipelineIsReusable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	provider := newFakeProvider()
	p := newTestPipeline(provider, &out)

	_, err := p.Run(context.Background(), Request{Bucket: "nonexistent-bucket-xyz", Object: "test-object", TTL: time.Hour})
	require.Error(t, err)
	require.Equal(t, StateFailed, p.State())

	_, err = p.Run(context.Background(), Request{Bucket: "test-pre-bucket", Object: "test-object", TTL: time.Hour})
	require.NoError(t, err)
	require.Equal(t, StateDone, p.State())
}
