package storage

import (
	"context"
	"fmt"
	"strings"
)

// Supported provider names.
const (
	ProviderS3    = "s3"
	ProviderMinIO = "minio"
	ProviderGCS   = "gcs"
)

// Config selects and configures a Provider. Fields left empty fall back to
// the ambient credentials and settings of the selected SDK.
type Config struct {
	// Provider is one of ProviderS3, ProviderMinIO or ProviderGCS.
	Provider string `mapstructure:"provider"`

	// Region is the S3 or MinIO region.
	Region string `mapstructure:"region"`

	// Endpoint overrides the S3 endpoint URL. For MinIO it is the host:port
	// of the server and is required.
	Endpoint string `mapstructure:"endpoint"`

	// PathStyle forces path-style addressing against S3 compatible endpoints.
	PathStyle bool `mapstructure:"path-style"`

	// UseSSL enables TLS for MinIO connections.
	UseSSL bool `mapstructure:"use-ssl"`

	// AccessKeyID and SecretAccessKey are static credentials for S3 and
	// MinIO. When both are empty the default credential chain is used.
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`

	// Project is the GCP project whose buckets are listed.
	Project string `mapstructure:"project"`

	// CredentialsFile is a GCS service account key. When empty Application
	// Default Credentials are used.
	CredentialsFile string `mapstructure:"credentials-file"`
}

// Validate checks that the configuration is complete for the selected
// provider.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Provider) {
	case ProviderS3, ProviderGCS:
	case ProviderMinIO:
		if c.Endpoint == "" {
			return fmt.Errorf("%w: endpoint is required for provider %q", ErrInvalidConfig, ProviderMinIO)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("%w: access-key-id and secret-access-key must be set together", ErrInvalidConfig)
	}
	return nil
}

// New builds the Provider selected by cfg.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderMinIO:
		return NewMinIOProvider(cfg)
	case ProviderGCS:
		return NewGCSProvider(ctx, cfg)
	default:
		return NewS3Provider(ctx, cfg)
	}
}
