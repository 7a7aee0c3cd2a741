package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/F45FW/fwsp-umf-message/errors"
)

// Defaults applied when a field is absent from every configuration source.
const (
	DefaultVersion          = "UMF/1.4.2"
	DefaultHTTPMethod       = "post"
	DefaultRouteCacheSize   = 1024
	DefaultMetricsNamespace = "umf"
)

// Config holds the UMF library settings a host process fixes at startup.
type Config struct {
	// Version is the tag written into the version/ver field of new messages.
	Version string `json:"version" yaml:"version"`

	// ShortForm selects the short vocabulary (frm, bdy, ts, ver, for) for
	// messages built by the default factory.
	ShortForm bool `json:"short_form" yaml:"short_form"`

	// DefaultHTTPMethod is reported by the route parser when the route has no
	// [VERB] segment. Empty means "absent".
	DefaultHTTPMethod string `json:"default_http_method" yaml:"default_http_method"`

	// RouteCacheSize bounds the number of parsed routes a Resolver keeps.
	// Zero disables caching.
	RouteCacheSize int `json:"route_cache_size" yaml:"route_cache_size"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `json:"metrics_namespace" yaml:"metrics_namespace"`
}

// Default returns a configuration populated with the package defaults.
func Default() *Config {
	return &Config{
		Version:           DefaultVersion,
		DefaultHTTPMethod: DefaultHTTPMethod,
		RouteCacheSize:    DefaultRouteCacheSize,
		MetricsNamespace:  DefaultMetricsNamespace,
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return Default()
	}
	copied := *c
	return &copied
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Version) == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "version is required")
	}

	if c.DefaultHTTPMethod != "" && !isLowerAlpha(c.DefaultHTTPMethod) {
		return errors.WrapFatal(
			fmt.Errorf("%w: default_http_method %q must be a lower-case verb", errors.ErrInvalidConfig, c.DefaultHTTPMethod),
			"Config", "Validate", "default_http_method check")
	}

	if c.RouteCacheSize < 0 {
		return errors.WrapFatal(
			fmt.Errorf("%w: route_cache_size %d is negative", errors.ErrInvalidConfig, c.RouteCacheSize),
			"Config", "Validate", "route_cache_size check")
	}

	if !isMetricName(c.MetricsNamespace) {
		return errors.WrapFatal(
			fmt.Errorf("%w: metrics_namespace %q is not a valid metric prefix", errors.ErrInvalidConfig, c.MetricsNamespace),
			"Config", "Validate", "metrics_namespace check")
	}

	return nil
}

func isLowerAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// isMetricName reports whether s matches [a-zA-Z_][a-zA-Z0-9_]*
func isMetricName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatJSON
	formatYAML
)

func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatUnknown
	}
}

// Load reads a JSON or YAML file (chosen by extension), overlays it on the
// defaults and validates the result. Keys absent from the file keep their
// default values.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, "Config", "Load", "read "+path)
	}

	cfg := Default()
	switch formatOf(path) {
	case formatJSON:
		if err := validateJSONDepth(data); err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "inspect JSON structure")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "decode JSON")
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "decode YAML")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("loaded UMF configuration",
		"path", path,
		"version", cfg.Version,
		"short_form", cfg.ShortForm,
		"default_http_method", cfg.DefaultHTTPMethod)

	return cfg, nil
}

var (
	initOnce sync.Once
	current  atomic.Pointer[Config]
)

// Init installs cfg as the process-wide configuration. It may succeed only
// once per process; later calls return a fatal error and leave the installed
// configuration untouched.
func Init(cfg *Config) error {
	if cfg == nil {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Init", "nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	installed := false
	initOnce.Do(func() {
		current.Store(cfg.Clone())
		installed = true
	})
	if !installed {
		return errors.WrapFatal(
			fmt.Errorf("%w: process configuration already initialized", errors.ErrInvalidConfig),
			"Config", "Init", "install")
	}
	return nil
}

// Current returns a copy of the process-wide configuration, or the defaults
// when Init has not been called.
func Current() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg.Clone()
	}
	return Default()
}
