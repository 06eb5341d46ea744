/*
Package config assembles an airship server's settings from command-line
flags and an optional YAML config file, following the teacher's
flag-plus-yamlFlag pattern (_examples/zalando-skipper/config/config.go).
*/
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":8080"
	defaultMetricsListener = ":9090"
)

const (
	addressUsage           = "address to listen on, e.g. :8080"
	routeFileUsage         = "path to a route definition file, one \"template -> resource-kind\" pair per line"
	metricsListenerUsage   = "address for a separate /metrics listener; stored in the config only, airshipd serves /metrics on -address"
	accessLogUsage         = "path to the access log file, empty disables it"
	applicationLogUsage    = "path to the application log file, empty means stderr"
	jsonLogsUsage          = "write application and access logs as JSON"
	otelEndpointUsage      = "OTLP endpoint for trace export; stored in the config only, airshipd installs no exporter"
	headerUsage            = "static response header in \"Name: value\" form, repeatable"
	trustedProxyUsage      = "comma-separated list of trusted proxy names; stored in the config only, airshipd does not read it"
	noCompressUsage        = "disable gzip response compression regardless of Accept-Encoding"
	bearerSecretUsage      = "HS256 shared secret for resource kinds that require a bearer token (e.g. secure-echo); with it empty, a route file using them fails to load"
	configFileUsage        = "path to a YAML file providing any of the flags above"
	breakerDefaultsUsage   = "YAML blob of circuit.BreakerSettings, alternative to repeating -breaker"
	ratelimitDefaultsUsage = "YAML blob of ratelimit.Settings, alternative to repeating -ratelimit"
)

// Config holds every setting an airship server needs, populated from flags
// and, optionally, a YAML file (SPEC_FULL §10.3).
type Config struct {
	ConfigFile string

	Address         string `yaml:"address"`
	RouteFile       string `yaml:"route-file"`
	MetricsListener string `yaml:"metrics-listener"`
	AccessLogFile   string `yaml:"access-log"`
	ApplicationLog  string `yaml:"application-log"`
	JSONLogs        bool   `yaml:"json-logs"`
	OtelEndpoint    string `yaml:"otel-endpoint"`
	NoCompress      bool   `yaml:"no-compress"`
	BearerSecret    string `yaml:"bearer-secret"`

	Breaker         breakerFlags   `yaml:"breaker"`
	BreakerDefaults *breakerFlags  `yaml:"-"`
	breakerDefaults *yamlFlag[breakerFlags]

	RateLimit         ratelimitFlags   `yaml:"ratelimit"`
	RatelimitDefaults *ratelimitFlags  `yaml:"-"`
	ratelimitDefaults *yamlFlag[ratelimitFlags]

	Headers      multiFlag `yaml:"header"`
	TrustedProxy *listFlag `yaml:"trusted-proxy"`
}

// NewConfig registers every flag against the standard flag.CommandLine, the
// same pattern the teacher's NewConfig uses.
func NewConfig() *Config {
	cfg := &Config{
		TrustedProxy: commaListFlag(),
	}
	cfg.breakerDefaults = newYamlFlag(&cfg.BreakerDefaults)
	cfg.ratelimitDefaults = newYamlFlag(&cfg.RatelimitDefaults)

	flag.StringVar(&cfg.ConfigFile, "config-file", "", configFileUsage)
	flag.StringVar(&cfg.Address, "address", defaultAddress, addressUsage)
	flag.StringVar(&cfg.RouteFile, "route-file", "", routeFileUsage)
	flag.StringVar(&cfg.MetricsListener, "metrics-listener", defaultMetricsListener, metricsListenerUsage)
	flag.StringVar(&cfg.AccessLogFile, "access-log", "", accessLogUsage)
	flag.StringVar(&cfg.ApplicationLog, "application-log", "", applicationLogUsage)
	flag.BoolVar(&cfg.JSONLogs, "json-logs", false, jsonLogsUsage)
	flag.StringVar(&cfg.OtelEndpoint, "otel-endpoint", "", otelEndpointUsage)
	flag.BoolVar(&cfg.NoCompress, "no-compress", false, noCompressUsage)
	flag.StringVar(&cfg.BearerSecret, "bearer-secret", "", bearerSecretUsage)

	flag.Var(&cfg.Breaker, "breaker", breakerUsage)
	flag.Var(cfg.breakerDefaults, "breaker-defaults", breakerDefaultsUsage)
	flag.Var(&cfg.RateLimit, "ratelimit", ratelimitUsage)
	flag.Var(cfg.ratelimitDefaults, "ratelimit-defaults", ratelimitDefaultsUsage)

	flag.Var(&cfg.Headers, "header", headerUsage)
	flag.Var(cfg.TrustedProxy, "trusted-proxy", trustedProxyUsage)

	return cfg
}

// Parse parses the command line, loading ConfigFile (if set) and
// re-parsing the flags so explicit command-line values still take
// precedence, matching the teacher's Config.Parse two-pass shape.
func (c *Config) Parse() error {
	flag.Parse()

	if len(flag.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", flag.Args())
	}

	if c.ConfigFile != "" {
		contents, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}

		if err := yaml.Unmarshal(contents, c); err != nil {
			return fmt.Errorf("unmarshalling config file error: %w", err)
		}

		flag.Parse()
	}

	if c.BreakerDefaults != nil {
		c.Breaker = append(c.Breaker, *c.BreakerDefaults...)
	}
	if c.RatelimitDefaults != nil {
		c.RateLimit = append(c.RateLimit, *c.RatelimitDefaults...)
	}

	return nil
}
