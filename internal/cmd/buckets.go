package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomasbasham/cli-runtime/templates"
)

type BucketsOptions struct {
	*PresignOptions

	flags *pflag.FlagSet
}

var (
	bucketsLong = templates.LongDesc(`
		List the buckets owned by the ambient credentials. For gcs the
		buckets of --project are listed.`)

	bucketsExample = templates.Examples(`
		# List S3 buckets
		presign buckets

		# List the buckets of a GCP project
		presign buckets --provider gcs --project my-project`)
)

func NewBucketsOptions(o *PresignOptions) *BucketsOptions {
	return &BucketsOptions{PresignOptions: o}
}

func NewBucketsCommand(o *BucketsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "buckets",
		Short:   "List the buckets owned by the caller",
		Long:    bucketsLong,
		Example: bucketsExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	return cmd
}

func (o *BucketsOptions) Complete(cmd *cobra.Command, args []string) error {
	o.flags = cmd.Flags()
	return nil
}

func (o *BucketsOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := o.newSession(ctx, o.flags)
	if err != nil {
		return err
	}

	buckets, err := s.provider.ListBuckets(ctx)
	if err != nil {
		s.log.Debug("listing buckets failed", "cause", err)
		return fmt.Errorf("failed to list buckets: %w", err)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })

	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("NAME", "CREATED")
	for _, b := range buckets {
		created := "-"
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.UTC().Format(time.RFC3339)
		}
		table.AddRow(b.Name, created)
	}

	_, err = fmt.Fprintln(o.Out, table)
	return err
}
