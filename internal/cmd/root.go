package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/printer"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/tomasbasham/presign/internal/config"
	"github.com/tomasbasham/presign/internal/log"
	"github.com/tomasbasham/presign/internal/storage"
)

var (
	rootLong = templates.LongDesc(`
		Check that an object exists and is readable, then print a
		time-limited signed URL that grants GET access to it without
		storage credentials.

		Credentials are taken from the environment: the AWS default
		credential chain for s3, AWS or MinIO variables and files for
		minio, and Application Default Credentials for gcs.`)

	rootExamples = templates.Examples(`
		# Sign a URL valid for the default 60 minutes
		presign --bucket test-pre-bucket --object test-object

		# Sign a URL valid for 15 minutes and print only the URL
		presign -b test-pre-bucket -o reports/2021.pdf -e 15 --url-only

		# Sign against a MinIO server
		PRESIGN_ACCESS_KEY_ID=minioadmin PRESIGN_SECRET_ACCESS_KEY=minioadmin \
		  presign --provider minio --endpoint localhost:9000 --use-ssl=false -b test-pre-bucket -o test-object`)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// ProviderFunc builds the storage provider for a run.
type ProviderFunc func(ctx context.Context, cfg storage.Config) (storage.Provider, error)

// PresignOptions defines the options shared by every `presign` command.
type PresignOptions struct {
	iooption.IOStreams

	// NewProvider builds the storage provider. Defaults to storage.New.
	NewProvider ProviderFunc
}

// NewPresignOptions provides an initialised PresignOptions instance.
func NewPresignOptions(streams iooption.IOStreams) *PresignOptions {
	return &PresignOptions{
		IOStreams:   streams,
		NewProvider: storage.New,
	}
}

// NewRootCommand creates the `presign` command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewPresignOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `presign` command and its nested
// children. The root command itself signs a URL.
func NewRootCommandWithArgs(o *PresignOptions) *cobra.Command {
	signOptions := NewSignOptions(o)

	cmd := &cobra.Command{
		Use:                   "presign -b BUCKET -o OBJECT [-e MINUTES]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Create time-limited signed URLs for storage objects",
		Long:                  rootLong,
		Example:               rootExamples,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signOptions.Complete(cmd, args); err != nil {
				return err
			}
			if err := signOptions.Validate(); err != nil {
				return err
			}
			if err := signOptions.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.SetOut(o.Out)
	cmd.SetErr(o.ErrOut)

	config.AddFlags(cmd.PersistentFlags())
	signOptions.AddFlags(cmd.Flags())

	cmd.AddCommand(NewCheckCommand(NewCheckOptions(o)))
	cmd.AddCommand(NewBucketsCommand(NewBucketsOptions(o)))

	// The global normalisation function ensures that all flags specified meet
	// the desired format, warning about and changing users' input if
	// necessary.
	warnings := printer.NewWarningPrinter(o.ErrOut, printer.WarningPrinterOptions{Color: true})
	cmd.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc(warnings))

	return cmd
}

// session is the per-run state built once flags are parsed: one logger and
// one provider, shared by every stage of the run.
type session struct {
	provider storage.Provider
	log      log.Logger
}

func (o *PresignOptions) newSession(ctx context.Context, flags *pflag.FlagSet) (*session, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	logger := log.New(&cfg.Log, o.ErrOut).WithValues(
		"run", uuid.NewString(),
		"provider", cfg.Storage.Provider,
	)

	newProvider := o.NewProvider
	if newProvider == nil {
		newProvider = storage.New
	}
	provider, err := newProvider(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise %s provider: %w", cfg.Storage.Provider, err)
	}
	logger.Debug("provider initialised")

	return &session{provider: provider, log: logger}, nil
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
