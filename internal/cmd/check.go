package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/tomasbasham/presign/internal/presign"
)

type CheckOptions struct {
	*PresignOptions

	flags    *pflag.FlagSet
	strategy presign.Strategy

	Bucket   string
	Object   string
	Strategy string
}

var (
	checkLong = templates.LongDesc(`
		Check that a bucket, and optionally an object within it, exist and
		are accessible with the ambient credentials. No URL is signed.`)

	checkExample = templates.Examples(`
		# Check a bucket
		presign check --bucket test-pre-bucket

		# Check an object, finding the bucket by listing owned buckets
		presign check -b test-pre-bucket -o test-object --strategy list`)
)

func NewCheckOptions(o *PresignOptions) *CheckOptions {
	return &CheckOptions{PresignOptions: o}
}

func NewCheckCommand(o *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Check that a bucket and object are accessible",
		Long:    checkLong,
		Example: checkExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "", "Target bucket name (required)")
	cmd.Flags().StringVarP(&o.Object, "object", "o", "", "Target object key (optional)")
	cmd.Flags().StringVar(&o.Strategy, "strategy", string(presign.StrategyProbe), "Bucket check strategy: probe or list")

	return cmd
}

func (o *CheckOptions) Complete(cmd *cobra.Command, args []string) error {
	o.flags = cmd.Flags()

	strategy, err := presign.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.strategy = strategy
	return nil
}

func (o *CheckOptions) Validate() error {
	if strings.TrimSpace(o.Bucket) == "" {
		return fmt.Errorf("invalid arguments: %w", presign.ErrBucketRequired)
	}
	// --object is optional, but when given it must name a key.
	if o.Object != "" && strings.TrimSpace(o.Object) == "" {
		return fmt.Errorf("invalid arguments: %w", presign.ErrObjectRequired)
	}
	return nil
}

func (o *CheckOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := o.newSession(ctx, o.flags)
	if err != nil {
		return err
	}

	d := presign.NewChecker(s.provider, o.strategy, s.log).Check(ctx, o.Bucket, o.Object)
	if err := d.Err(); err != nil {
		return err
	}

	if o.Object == "" {
		fmt.Fprintf(o.Out, "Bucket %s is accessible\n", o.Bucket)
	} else {
		fmt.Fprintf(o.Out, "Object %s in bucket %s is accessible\n", o.Object, o.Bucket)
	}
	return nil
}
