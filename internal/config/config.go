// Package config loads and validates the pipeline configuration: source
// endpoint, output path, request timeout, and log sink.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
)

// Defaults match the original deployment: JSONPlaceholder users, a CSV under
// output/, and a 5 second request timeout.
const (
	DefaultEndpoint = "https://jsonplaceholder.typicode.com/users"
	DefaultOutput   = "output/users_cleaned.csv"
	DefaultTimeout  = 5 * time.Second
)

// Config is the validated runtime configuration.
type Config struct {
	Endpoint string
	Output   string
	Timeout  time.Duration
	LogFile  string
	Debug    bool
}

// yamlConfig is the on-disk DTO. Zero values mean "use the default".
type yamlConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Output    string `yaml:"output"`
	TimeoutMS int    `yaml:"timeout_ms"`
	LogFile   string `yaml:"log_file"`
	Debug     bool   `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Output:   DefaultOutput,
		Timeout:  DefaultTimeout,
	}
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	var dto yamlConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapConfig(path, dto)
}

func mapConfig(path string, dto yamlConfig) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(dto.Endpoint) != "" {
		cfg.Endpoint = strings.TrimSpace(dto.Endpoint)
	}
	if strings.TrimSpace(dto.Output) != "" {
		cfg.Output = strings.TrimSpace(dto.Output)
	}
	if dto.TimeoutMS < 0 {
		return Config{}, invalidField(path, "timeout_ms", "must not be negative")
	}
	if dto.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(dto.TimeoutMS) * time.Millisecond
	}
	cfg.LogFile = strings.TrimSpace(dto.LogFile)
	cfg.Debug = dto.Debug

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks a Config after all overrides have been applied.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalidField("", "endpoint", fmt.Sprintf("not an http(s) URL: %q", cfg.Endpoint))
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return invalidField("", "output", "output path is required")
	}
	if cfg.Timeout <= 0 {
		return invalidField("", "timeout", "must be positive")
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
