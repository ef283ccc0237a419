package presign

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomasbasham/presign/internal/log"
	"github.com/tomasbasham/presign/internal/storage"
)

// Strategy selects how the bucket half of a check is performed.
type Strategy string

const (
	// StrategyProbe issues a direct existence probe for the bucket.
	StrategyProbe Strategy = "probe"

	// StrategyList lists the caller's buckets and tests membership.
	StrategyList Strategy = "list"
)

// ParseStrategy parses a strategy name. The empty string selects
// StrategyProbe.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", StrategyProbe:
		return StrategyProbe, nil
	case StrategyList:
		return StrategyList, nil
	}
	return "", fmt.Errorf("unknown strategy %q: must be %q or %q", s, StrategyProbe, StrategyList)
}

// Checker confirms that a bucket, and optionally an object within it, exist
// and are accessible with the provider's credentials.
type Checker struct {
	provider storage.Provider
	strategy Strategy
	log      log.Logger
}

// NewChecker creates a Checker. A nil logger discards diagnostics.
func NewChecker(provider storage.Provider, strategy Strategy, logger log.Logger) *Checker {
	if strategy == "" {
		strategy = StrategyProbe
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Checker{provider: provider, strategy: strategy, log: logger}
}

// Check probes bucket, then object when it is non-empty. The object is only
// probed once the bucket is accessible.
func (c *Checker) Check(ctx context.Context, bucket, object string) Decision {
	d := c.checkBucket(ctx, bucket)
	if !d.Accessible() || object == "" {
		return d
	}

	c.log.Debug("probing object", "bucket", bucket, "object", object)
	d = decide(EntityObject, object, c.provider.ProbeObject(ctx, bucket, object))
	c.logDecision(d)
	return d
}

func (c *Checker) checkBucket(ctx context.Context, bucket string) Decision {
	var d Decision
	if c.strategy == StrategyList {
		d = c.listBucket(ctx, bucket)
	} else {
		c.log.Debug("probing bucket", "bucket", bucket)
		d = decide(EntityBucket, bucket, c.provider.ProbeBucket(ctx, bucket))
	}
	c.logDecision(d)
	return d
}

func (c *Checker) listBucket(ctx context.Context, bucket string) Decision {
	c.log.Debug("listing owned buckets", "bucket", bucket)

	buckets, err := c.provider.ListBuckets(ctx)
	if err != nil {
		return decide(EntityBucket, bucket, err)
	}
	for _, b := range buckets {
		if b.Name == bucket {
			return decide(EntityBucket, bucket, nil)
		}
	}
	return decide(EntityBucket, bucket,
		fmt.Errorf("%w: bucket %q is not among the %d owned buckets", storage.ErrNotFound, bucket, len(buckets)))
}

// logDecision records the provider error behind a failed decision. It is
// kept at debug level; users see the classified AccessError instead.
func (c *Checker) logDecision(d Decision) {
	if d.Accessible() {
		c.log.Debug("check passed", string(d.Entity), d.Name)
		return
	}
	c.log.Debug("check failed", string(d.Entity), d.Name, "access", d.Access.String(), "cause", d.cause)
}
