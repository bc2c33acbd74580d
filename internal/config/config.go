// Package config loads fdnorm settings from defaults, a YAML file,
// FDNORM_ environment variables and command line flags.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/tordrt/fdnorm/internal/fd"
)

// Defaults
const (
	DefaultFormat        = "text"
	DefaultSchema        = "public"
	DefaultMaxAttributes = 16

	// DefaultConfigFile is read from the working directory when no file is given
	DefaultConfigFile = "fdnorm.yaml"

	envPrefix = "FDNORM_"
)

var formats = []string{"text", "markdown", "yaml"}

// Config holds the settings of one fdnorm run
type Config struct {
	DatabaseURL string `koanf:"db_url"`
	MySQLURL    string `koanf:"mysql_url"`
	SQLitePath  string `koanf:"sqlite"`
	Schema      string `koanf:"schema"`

	Tables  []string `koanf:"tables"`
	Exclude []string `koanf:"exclude"`
	// Dependencies are previewed on top of the catalog, "A, B -> C".
	// FDNORM_FD separates dependencies with ";".
	Dependencies []string `koanf:"fd"`

	Format    string `koanf:"format"`
	Output    string `koanf:"output"`
	OutputDir string `koanf:"output_dir"`

	Normalize     string `koanf:"normalize"`
	MaxAttributes int    `koanf:"max_attributes"`
	Concurrency   int    `koanf:"concurrency"`
	Verbose       bool   `koanf:"verbose"`
}

// Load reads configuration. Precedence (highest to lowest):
// flags > env vars > config file > defaults. Only flags that were set
// explicitly take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":         DefaultFormat,
		"schema":         DefaultSchema,
		"max_attributes": DefaultMaxAttributes,
		"verbose":        false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment, FDNORM_MAX_ATTRIBUTES -> max_attributes
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		switch key {
		case "tables", "exclude":
			return key, strings.Split(value, ",")
		case "fd":
			return key, strings.Split(value, ";")
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch {
			case key == "tables" || key == "exclude":
				return key, strings.Split(f.Value.String(), ",")
			case f.Value.Type() == "stringArray":
				// dependencies may contain commas
				v, _ := flags.GetStringArray(f.Name)
				return key, v
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Tables = trimAll(cfg.Tables)
	cfg.Exclude = trimAll(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that do not depend on the command being run
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", c.Format)
	}
	if c.MaxAttributes < 0 {
		return fmt.Errorf("max_attributes must not be negative, got %d", c.MaxAttributes)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Output != "" && c.OutputDir != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if _, err := c.Target(); err != nil {
		return err
	}
	return nil
}

// Target returns the requested normal form, zero when none was requested
func (c *Config) Target() (fd.NormalForm, error) {
	if c.Normalize == "" {
		return 0, nil
	}
	nf, err := fd.ParseNormalForm(c.Normalize)
	if err != nil {
		return 0, err
	}
	if nf != fd.Second && nf != fd.Third {
		return 0, fmt.Errorf("cannot normalize into %s: %w", nf, fd.ErrUnsupportedForm)
	}
	return nf, nil
}

// SourceURL returns the database URL of the single configured source
func (c *Config) SourceURL() (string, error) {
	var urls []string
	if c.DatabaseURL != "" {
		urls = append(urls, c.DatabaseURL)
	}
	if c.MySQLURL != "" {
		urls = append(urls, withScheme("mysql://", c.MySQLURL))
	}
	if c.SQLitePath != "" {
		urls = append(urls, withScheme("sqlite://", c.SQLitePath))
	}

	switch len(urls) {
	case 0:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
}

// SchemaName returns the schema to introspect. The default schema only
// applies to PostgreSQL; MySQL falls back to the database named in its DSN.
func (c *Config) SchemaName() string {
	if c.Schema == DefaultSchema && (c.MySQLURL != "" || strings.HasPrefix(c.DatabaseURL, "mysql://")) {
		return ""
	}
	return c.Schema
}

func withScheme(scheme, s string) string {
	if strings.HasPrefix(s, scheme) {
		return s
	}
	return scheme + s
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
