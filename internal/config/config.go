package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/wpstat/internal/waterpoint"
	"github.com/dkoosis/wpstat/pkg/render"
	"github.com/dkoosis/wpstat/pkg/source"
)

// EnvPrefix prefixes every environment variable read by wpstat.
const EnvPrefix = "WPSTAT"

// FileName is the config file looked up in the working directory and
// the user config directory.
const FileName = ".wpstat.yaml"

// Keys.
const (
	KeySource           = "source"
	KeyFormat           = "format"
	KeyTheme            = "theme"
	KeyNoColor          = "no_color"
	KeyTop              = "top"
	KeyTimeout          = "timeout"
	KeyMaxBodyBytes     = "max_body_bytes"
	KeyUserAgent        = "user_agent"
	KeyCommunityField   = "fields.community"
	KeyStatusField      = "fields.status"
	KeyFunctioningValue = "fields.functioning_value"
	KeySkipMalformed    = "skip_malformed"
	KeyVerbose          = "verbose"
	KeyLogFile          = "log_file"
	KeyMetricsFile      = "metrics_file"
)

// Defaults.
const (
	DefaultFormat    = "auto"
	DefaultTheme     = "default"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "wpstat"
)

// Formats lists the accepted --format values.
var Formats = []string{"auto", "terminal", "llm", "json"}

// Themes lists the accepted --theme values.
var Themes = render.ThemeNames

// Fields is the upstream field contract.
type Fields struct {
	Community        string `yaml:"community"`
	Status           string `yaml:"status"`
	FunctioningValue string `yaml:"functioning_value"`
}

// Config is the resolved configuration.
type Config struct {
	Source        string        `yaml:"source"`
	Format        string        `yaml:"format"`
	Theme         string        `yaml:"theme"`
	NoColor       bool          `yaml:"no_color"`
	Top           int           `yaml:"top"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	UserAgent     string        `yaml:"user_agent"`
	Fields        Fields        `yaml:"fields"`
	SkipMalformed bool          `yaml:"skip_malformed"`
	Verbose       bool          `yaml:"verbose"`
	LogFile       string        `yaml:"log_file,omitempty"`
	MetricsFile   string        `yaml:"metrics_file,omitempty"`

	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"source":            KeySource,
	"format":            KeyFormat,
	"theme":             KeyTheme,
	"no-color":          KeyNoColor,
	"top":               KeyTop,
	"timeout":           KeyTimeout,
	"max-body-bytes":    KeyMaxBodyBytes,
	"user-agent":        KeyUserAgent,
	"community-field":   KeyCommunityField,
	"status-field":      KeyStatusField,
	"functioning-value": KeyFunctioningValue,
	"skip-malformed":    KeySkipMalformed,
	"verbose":           KeyVerbose,
	"log-file":          KeyLogFile,
	"metrics-file":      KeyMetricsFile,
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySource, source.DefaultURL)
	v.SetDefault(KeyFormat, DefaultFormat)
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyTop, 0)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyMaxBodyBytes, int64(source.DefaultMaxBytes))
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
	v.SetDefault(KeyCommunityField, waterpoint.DefaultCommunityField)
	v.SetDefault(KeyStatusField, waterpoint.DefaultStatusField)
	v.SetDefault(KeyFunctioningValue, waterpoint.DefaultFunctioningValue)
	v.SetDefault(KeySkipMalformed, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMetricsFile, "")
	return v
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("source", source.DefaultURL, "Dataset URL, file path, or - for stdin")
	fs.String("format", DefaultFormat, "Output format: "+strings.Join(Formats, ", "))
	fs.String("theme", DefaultTheme, "Theme: "+strings.Join(Themes, ", "))
	fs.Bool("no-color", false, "Disable colors")
	fs.Int("top", 0, "Show only the top N ranked communities (0 = all; ignored for json)")
	fs.Duration("timeout", DefaultTimeout, "Download timeout")
	fs.Int64("max-body-bytes", source.DefaultMaxBytes, "Maximum dataset size in bytes")
	fs.String("user-agent", DefaultUserAgent, "User-Agent for HTTP downloads")
	fs.String("community-field", waterpoint.DefaultCommunityField, "Record attribute holding the community name")
	fs.String("status-field", waterpoint.DefaultStatusField, "Record attribute holding the functioning status")
	fs.String("functioning-value", waterpoint.DefaultFunctioningValue, "Status value meaning functioning")
	fs.Bool("skip-malformed", false, "Skip records missing required fields instead of failing")
	fs.BoolP("verbose", "v", false, "Enable debug logging")
	fs.String("log-file", "", "Also write JSON logs to this rotating file")
	fs.String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")
}

// BindFlags binds every flag registered by RegisterFlags that exists on fs.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads path into the environment without overriding existing
// variables. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the config file into v. An explicit path must exist;
// otherwise the default locations are searched and may be absent.
func ReadFile(v *viper.Viper, explicit string) error {
	path := explicit
	if path == "" {
		path = findConfigPath()
	}
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// findConfigPath returns the local config file, else the user config file,
// else "".
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "wpstat", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

// Resolve reads the effective configuration from v and validates it.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Source:        v.GetString(KeySource),
		Format:        strings.ToLower(v.GetString(KeyFormat)),
		Theme:         strings.ToLower(v.GetString(KeyTheme)),
		NoColor:       v.GetBool(KeyNoColor),
		Top:           v.GetInt(KeyTop),
		Timeout:       v.GetDuration(KeyTimeout),
		MaxBodyBytes:  v.GetInt64(KeyMaxBodyBytes),
		UserAgent:     v.GetString(KeyUserAgent),
		SkipMalformed: v.GetBool(KeySkipMalformed),
		Verbose:       v.GetBool(KeyVerbose),
		LogFile:       v.GetString(KeyLogFile),
		MetricsFile:   v.GetString(KeyMetricsFile),
		Fields: Fields{
			Community:        v.GetString(KeyCommunityField),
			Status:           v.GetString(KeyStatusField),
			FunctioningValue: v.GetString(KeyFunctioningValue),
		},
		File: v.ConfigFileUsed(),
	}

	// NO_COLOR convention: any non-empty value disables colors
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Formats, c.Format) {
		errs = append(errs, fmt.Errorf("unknown format %q (expected %s)", c.Format, strings.Join(Formats, ", ")))
	}
	if !slices.Contains(Themes, c.Theme) {
		errs = append(errs, fmt.Errorf("unknown theme %q (expected %s)", c.Theme, strings.Join(Themes, ", ")))
	}
	if c.Top < 0 {
		errs = append(errs, fmt.Errorf("top must be >= 0, got %d", c.Top))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.Fields.Community == "" || c.Fields.Status == "" || c.Fields.FunctioningValue == "" {
		errs = append(errs, errors.New("fields.community, fields.status and fields.functioning_value must be non-empty"))
	}
	if c.Fields.Community != "" && c.Fields.Community == c.Fields.Status {
		errs = append(errs, fmt.Errorf("fields.community and fields.status must differ, both are %q", c.Fields.Community))
	}
	return errors.Join(errs...)
}

// WaterpointFields converts the field contract for the aggregator.
func (c *Config) WaterpointFields() waterpoint.Fields {
	return waterpoint.Fields{
		Community:        c.Fields.Community,
		Status:           c.Fields.Status,
		FunctioningValue: c.Fields.FunctioningValue,
	}
}

// Policy returns the malformed-record policy.
func (c *Config) Policy() waterpoint.Policy {
	if c.SkipMalformed {
		return waterpoint.PolicySkip
	}
	return waterpoint.PolicyStrict
}

// YAML renders the configuration as a .wpstat.yaml document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
