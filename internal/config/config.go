// Package config resolves the presign configuration from, in order of
// precedence, command line flags, PRESIGN_* environment variables, an
// optional config file and built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tomasbasham/presign/internal/log"
	"github.com/tomasbasham/presign/internal/storage"
)

// EnvPrefix is prepended to every environment variable, e.g.
// PRESIGN_REGION.
const EnvPrefix = "PRESIGN"

const (
	keyConfig          = "config"
	keyProvider        = "provider"
	keyRegion          = "region"
	keyEndpoint        = "endpoint"
	keyPathStyle       = "path-style"
	keyUseSSL          = "use-ssl"
	keyAccessKeyID     = "access-key-id"
	keySecretAccessKey = "secret-access-key"
	keyProject         = "project"
	keyCredentialsFile = "credentials-file"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
)

// Config is the resolved configuration of a run.
type Config struct {
	Storage storage.Config `mapstructure:",squash"`
	Log     log.Options    `mapstructure:",squash"`
}

// AddFlags registers the configuration flags on fs. Secrets have no flag;
// they are read from the environment or the config file only.
func AddFlags(fs *pflag.FlagSet) {
	logDefaults := log.NewOptions()

	fs.String(keyConfig, "", "Path to a config file (YAML, JSON or TOML)")
	fs.String(keyProvider, storage.ProviderS3, "Storage provider: s3, minio or gcs")
	fs.String(keyRegion, "", "S3 or MinIO region (default: from the AWS configuration)")
	fs.String(keyEndpoint, "", "Custom S3 endpoint URL, or MinIO host:port")
	fs.Bool(keyPathStyle, false, "Use path-style addressing for S3 compatible endpoints")
	fs.Bool(keyUseSSL, true, "Use TLS for MinIO connections")
	fs.String(keyProject, "", "GCP project used to list GCS buckets")
	fs.String(keyLogLevel, logDefaults.Level, "Log level: debug, info, warn or error")
	fs.String(keyLogFormat, logDefaults.Format, "Log format: console or json")
}

// Load resolves the configuration using the flags registered by AddFlags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Storage.Provider = strings.ToLower(cfg.Storage.Provider)

	return &cfg, nil
}

// setDefaults registers every key so that environment-only keys are picked
// up by Unmarshal.
func setDefaults(v *viper.Viper) {
	logDefaults := log.NewOptions()

	v.SetDefault(keyConfig, "")
	v.SetDefault(keyProvider, storage.ProviderS3)
	v.SetDefault(keyRegion, "")
	v.SetDefault(keyEndpoint, "")
	v.SetDefault(keyPathStyle, false)
	v.SetDefault(keyUseSSL, true)
	v.SetDefault(keyAccessKeyID, "")
	v.SetDefault(keySecretAccessKey, "")
	v.SetDefault(keyProject, "")
	v.SetDefault(keyCredentialsFile, "")
	v.SetDefault(keyLogLevel, logDefaults.Level)
	v.SetDefault(keyLogFormat, logDefaults.Format)
}
