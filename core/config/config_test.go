package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/anoideaopen/proxy/core/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const sample = `
[logging]
level = "debug"
format = "json"

[telemetry]
service_name = "billing"

[generate]
package = "billingproxy"
output = "billing_proxy.go"

[[generate.targets]]
import = "example.com/billing"
types = ["Service", "Ledger"]
`

func TestFromBytes(t *testing.T) {
	cfg, err := FromBytes([]byte(sample))
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "billing", cfg.Telemetry.ServiceName)
	require.Equal(t, "billingproxy", cfg.Generate.Package)
	require.Equal(t, []Target{{Import: "example.com/billing", Types: []string{"Service", "Ledger"}}}, cfg.Generate.Targets)
	require.NoError(t, cfg.Validate())
}

func TestFromBytesErrors(t *testing.T) {
	_, err := FromBytes(nil)
	require.ErrorIs(t, err, ErrCfgBytesEmpty)

	_, err = FromBytes([]byte("[logging"))
	require.Error(t, err)

	_, err = FromBytes([]byte("[logging]\nverbosity = 3\n"))
	require.ErrorContains(t, err, "logging.verbosity")
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxygen.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "billing_proxy.go", cfg.Generate.Output)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaults(t *testing.T) {
	cfg, err := FromBytes([]byte("[logging]\nlevel = \"info\"\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultServiceName, cfg.Telemetry.ServiceName)
	require.Equal(t, DefaultServiceName, Default().Telemetry.ServiceName)
	require.NoError(t, Default().Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLoggingLevel, "trace")
	t.Setenv(EnvTracingEndpoint, "collector:4318")
	t.Setenv(EnvServiceName, "")

	cfg, err := FromBytes([]byte(sample))
	require.NoError(t, err)
	cfg.ApplyEnv()

	require.Equal(t, "trace", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, "collector:4318", cfg.Telemetry.Endpoint)
	require.Equal(t, "billing", cfg.Telemetry.ServiceName)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := FromBytes([]byte(sample))
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, ErrLoggingLevel},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ErrLoggingFormat},
		{"bad package", func(c *Config) { c.Generate.Package = "billing-proxy" }, ErrPackageName},
		{"no output", func(c *Config) { c.Generate.Output = "" }, ErrOutputEmpty},
		{"no import", func(c *Config) { c.Generate.Targets[0].Import = "" }, ErrImportEmpty},
		{"no types", func(c *Config) { c.Generate.Targets[0].Types = nil }, ErrTypesEmpty},
		{"unexported type", func(c *Config) { c.Generate.Targets[0].Types = []string{"service"} }, ErrTypeName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}

func TestApply(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, logger.Configure("", ""))
	})

	cfg := Default()
	cfg.Logging.Level = "info"

	shutdown, err := Apply(cfg)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.Equal(t, logrus.InfoLevel, logger.Base().GetLevel())

	cfg.Logging.Level = "loud"
	_, err = Apply(cfg)
	require.Error(t, err)
}
