package presign

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// TimeLayout renders the expiration instant, e.g. 28-Aug-2021 06:03:46.
const TimeLayout = "02-Jan-2006 15:04:05"

// ErrNoURL is returned when there is no signed URL to report.
var ErrNoURL = errors.New("no URL produced")

// Reporter writes a signed URL for a human reader.
type Reporter struct {
	out     io.Writer
	urlOnly bool
}

// NewReporter creates a Reporter writing to out. With urlOnly set only the
// bare URL is written, which suits shell substitution.
func NewReporter(out io.Writer, urlOnly bool) *Reporter {
	return &Reporter{out: out, urlOnly: urlOnly}
}

// Report writes res. The expiration line is omitted when res carries no
// expiration instant.
func (r *Reporter) Report(res *SignedURL) error {
	if res == nil || res.URL == "" {
		return ErrNoURL
	}

	if r.urlOnly {
		_, err := fmt.Fprintln(r.out, res.URL)
		return err
	}

	if _, err := fmt.Fprintf(r.out, "URL = %s\n", res.URL); err != nil {
		return err
	}
	if res.ExpiresAt.IsZero() {
		return nil
	}

	_, err := fmt.Fprintf(r.out, "Valid until = %s (%s)\n", res.ExpiresAt.Format(TimeLayout), formatTTL(res.TTL))
	return err
}

func formatTTL(ttl time.Duration) string {
	if ttl%time.Minute != 0 {
		return fmt.Sprintf("%d seconds", int64(ttl/time.Second))
	}
	minutes := int64(ttl / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
