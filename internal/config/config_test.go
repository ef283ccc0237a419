package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/tomasbasham/presign/internal/storage"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	require.Equal(t, storage.ProviderS3, cfg.Storage.Provider)
	require.True(t, cfg.Storage.UseSSL)
	require.False(t, cfg.Storage.PathStyle)
	require.Empty(t, cfg.Storage.Region)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load(newFlagSet(t,
		"--provider", "MinIO",
		"--endpoint", "localhost:9000",
		"--use-ssl=false",
		"--region", "eu-west-2",
		"--log-level", "debug",
	))
	require.NoError(t, err)

	require.Equal(t, storage.ProviderMinIO, cfg.Storage.Provider)
	require.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	require.False(t, cfg.Storage.UseSSL)
	require.Equal(t, "eu-west-2", cfg.Storage.Region)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PRESIGN_REGION", "ap-southeast-1")
	t.Setenv("PRESIGN_PATH_STYLE", "true")
	t.Setenv("PRESIGN_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("PRESIGN_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	require.Equal(t, "ap-southeast-1", cfg.Storage.Region)
	require.True(t, cfg.Storage.PathStyle)
	require.Equal(t, "AKIDEXAMPLE", cfg.Storage.AccessKeyID)
	require.Equal(t, "secret", cfg.Storage.SecretAccessKey)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PRESIGN_REGION", "ap-southeast-1")

	cfg, err := Load(newFlagSet(t, "--region", "us-west-2"))
	require.NoError(t, err)
	require.Equal(t, "us-west-2", cfg.Storage.Region)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presign.yaml")
	content := []byte(`provider: gcs
project: my-project
credentials-file: /etc/presign/key.json
log-format: json
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(newFlagSet(t, "--config", path))
	require.NoError(t, err)

	require.Equal(t, storage.ProviderGCS, cfg.Storage.Provider)
	require.Equal(t, "my-project", cfg.Storage.Project)
	require.Equal(t, "/etc/presign/key.json", cfg.Storage.CredentialsFile)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}
