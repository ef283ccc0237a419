package presign

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewReporter(&buf, false).Report(&SignedURL{
		URL:       "https://example.com/signed",
		TTL:       time.Hour,
		ExpiresAt: time.Date(2021, time.August, 28, 6, 3, 46, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "URL = https://example.com/signed\nValid until = 28-Aug-2021 06:03:46 (60 minutes)\n", buf.String())
}

func TestReportURLOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewReporter(&buf, true).Report(&SignedURL{
		URL:       "https://example.com/signed",
		TTL:       time.Hour,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/signed\n", buf.String())
}

func TestReportWithoutExpiration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, false).Report(&SignedURL{URL: "https://example.com/signed"}))
	require.Equal(t, "URL = https://example.com/signed\n", buf.String())
}

func TestReportNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.ErrorIs(t, NewReporter(&buf, false).Report(nil), ErrNoURL)
	require.ErrorIs(t, NewReporter(&buf, false).Report(&SignedURL{}), ErrNoURL)
	require.Zero(t, buf.Len())
}

func TestReportWriteError(t *testing.T) {
	t.Parallel()

	err := NewReporter(failingWriter{}, false).Report(&SignedURL{URL: "https://example.com/signed"})
	require.Error(t, err)
}

func TestFormatTTL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1 minute", formatTTL(time.Minute))
	require.Equal(t, "60 minutes", formatTTL(time.Hour))
	require.Equal(t, "90 seconds", formatTTL(90*time.Second))
}
