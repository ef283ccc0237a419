package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomasbasham/presign/internal/presign"
)

const defaultExpiresMinutes = 60

// SignOptions defines the options for signing a URL, the default action of
// the root command.
type SignOptions struct {
	*PresignOptions

	flags    *pflag.FlagSet
	strategy presign.Strategy

	Bucket   string
	Object   string
	Expires  int
	Strategy string
	URLOnly  bool
}

func NewSignOptions(o *PresignOptions) *SignOptions {
	return &SignOptions{
		PresignOptions: o,
		Expires:        defaultExpiresMinutes,
	}
}

// AddFlags registers the signing flags on fs.
func (o *SignOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Bucket, "bucket", "b", "", "Target bucket name (required)")
	fs.StringVarP(&o.Object, "object", "o", "", "Target object key (required)")
	fs.IntVarP(&o.Expires, "expires", "e", defaultExpiresMinutes, "Number of minutes until the signed URL expires")
	fs.StringVar(&o.Strategy, "strategy", string(presign.StrategyProbe), "Bucket check strategy: probe or list")
	fs.BoolVar(&o.URLOnly, "url-only", false, "Print only the signed URL")
}

func (o *SignOptions) Complete(cmd *cobra.Command, args []string) error {
	o.flags = cmd.Flags()

	strategy, err := presign.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.strategy = strategy
	return nil
}

// Validate fails fast on malformed input, before any call to the storage
// service.
func (o *SignOptions) Validate() error {
	maxMinutes := int(presign.MaxExpiration / time.Minute)
	if o.Expires <= 0 || o.Expires > maxMinutes {
		return fmt.Errorf("invalid arguments: %w: --expires must be between 1 and %d minutes, got %d",
			presign.ErrInvalidExpiration, maxMinutes, o.Expires)
	}
	if err := o.request().Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (o *SignOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := o.newSession(ctx, o.flags)
	if err != nil {
		return err
	}

	pipeline := presign.NewPipeline(
		presign.NewChecker(s.provider, o.strategy, s.log),
		presign.NewSigner(s.provider, s.log),
		presign.NewReporter(o.Out, o.URLOnly),
		s.log,
	)

	if _, err := pipeline.Run(ctx, o.request()); err != nil {
		s.log.Debug("run failed", "state", pipeline.State())
		return err
	}
	return nil
}

func (o *SignOptions) request() presign.Request {
	return presign.Request{
		Bucket: o.Bucket,
		Object: o.Object,
		TTL:    presign.ExpiresIn(o.Expires),
	}
}
