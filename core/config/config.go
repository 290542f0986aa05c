// Package config loads the proxy engine configuration from TOML.
//
//	[logging]
//	level = "debug"
//	format = "json"
//
//	[telemetry]
//	endpoint = "otel-collector:4318"
//	service_name = "billing"
//
//	[generate]
//	package = "billingproxy"
//	output = "billing_proxy.go"
//
//	[[generate.targets]]
//	import = "example.com/billing"
//	types = ["Service", "Ledger"]
//
// Environment variables override file values; see ApplyEnv.
package config

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/anoideaopen/proxy/core/logger"
	"github.com/anoideaopen/proxy/core/stringsx"
	"github.com/anoideaopen/proxy/core/telemetry"
	"github.com/sirupsen/logrus"
)

const (
	EnvLoggingLevel    = "PROXY_LOGGING_LEVEL"
	EnvLoggingFormat   = "PROXY_LOGGING_FORMAT"
	EnvTracingEndpoint = "PROXY_TRACING_ENDPOINT"
	EnvServiceName     = "PROXY_SERVICE_NAME"

	DefaultServiceName = "proxy"
)

var ErrCfgBytesEmpty = errors.New("config bytes is empty")

// validation errors
var (
	ErrLoggingLevel  = errors.New("invalid logging level")
	ErrLoggingFormat = errors.New("invalid logging format")
	ErrPackageName   = errors.New("invalid output package name")
	ErrOutputEmpty   = errors.New("'output' is empty")
	ErrImportEmpty   = errors.New("target 'import' is empty")
	ErrTypesEmpty    = errors.New("target 'types' is empty")
	ErrTypeName      = errors.New("invalid type name")
)

// Config is the engine configuration.
type Config struct {
	Logging   Logging   `toml:"logging"`
	Telemetry Telemetry `toml:"telemetry"`
	Generate  Generate  `toml:"generate"`
}

// Logging configures the engine logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Telemetry configures trace export.
type Telemetry struct {
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
	CACerts     string `toml:"ca_certs"`
}

// Generate configures the proxygen code generator.
type Generate struct {
	Package string   `toml:"package"`
	Output  string   `toml:"output"`
	Targets []Target `toml:"targets"`
}

// Target names the interfaces of one package to generate proxies for.
type Target struct {
	Import string   `toml:"import"`
	Types  []string `toml:"types"`
}

// FromFile reads and parses a TOML file.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// FromBytes parses TOML configuration and fills defaults.
func FromBytes(cfgBytes []byte) (*Config, error) {
	if len(cfgBytes) == 0 {
		return nil, ErrCfgBytesEmpty
	}

	cfg := new(Config)
	md, err := toml.Decode(string(cfgBytes), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key '%s'", undecoded[0])
	}

	cfg.setDefaults()

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := new(Config)
	cfg.setDefaults()

	return cfg
}

func (c *Config) setDefaults() {
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
}

// ApplyEnv overrides values with the PROXY_* environment variables that are set.
func (c *Config) ApplyEnv() {
	override := func(dst *string, env string) {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}

	override(&c.Logging.Level, EnvLoggingLevel)
	override(&c.Logging.Format, EnvLoggingFormat)
	override(&c.Telemetry.Endpoint, EnvTracingEndpoint)
	override(&c.Telemetry.ServiceName, EnvServiceName)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Logging.Level != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("%w: '%s'", ErrLoggingLevel, c.Logging.Level)
		}
	}
	if c.Logging.Format != "" && !stringsx.OneOf(c.Logging.Format, logger.FormatText, logger.FormatJSON) {
		return fmt.Errorf("%w: '%s'", ErrLoggingFormat, c.Logging.Format)
	}

	return c.Generate.Validate()
}

// Validate checks the generator settings. An empty target list is valid.
func (g Generate) Validate() error {
	if len(g.Targets) == 0 {
		return nil
	}

	if !token.IsIdentifier(g.Package) {
		return fmt.Errorf("%w: '%s'", ErrPackageName, g.Package)
	}
	if g.Output == "" {
		return ErrOutputEmpty
	}

	for i, t := range g.Targets {
		if t.Import == "" {
			return fmt.Errorf("%w: target %d", ErrImportEmpty, i)
		}
		if len(t.Types) == 0 {
			return fmt.Errorf("%w: target %d (%s)", ErrTypesEmpty, i, t.Import)
		}
		for _, name := range t.Types {
			if !token.IsExported(name) {
				return fmt.Errorf("%w: '%s' in %s is not exported", ErrTypeName, name, t.Import)
			}
		}
	}

	return nil
}

// Apply configures the engine logger and installs the trace provider.
// The returned function shuts the provider down.
func Apply(cfg *Config) (func(context.Context) error, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	shutdown, err := telemetry.InstallTraceProvider(&telemetry.CollectorEndpoint{
		Endpoint: cfg.Telemetry.Endpoint,
		CACerts:  cfg.Telemetry.CACerts,
	}, cfg.Telemetry.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("installing trace provider: %w", err)
	}

	logger.Logger().WithFields(logrus.Fields{
		"level":    logger.Base().GetLevel().String(),
		"endpoint": cfg.Telemetry.Endpoint,
		"service":  cfg.Telemetry.ServiceName,
	}).Debug("engine configured")

	return shutdown, nil
}
