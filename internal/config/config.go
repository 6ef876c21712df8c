package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/almanac/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "almanac.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultContentDir is the default root of the content tree.
	DefaultContentDir = "."

	// DefaultStaticDir is the default presentation bundle directory.
	DefaultStaticDir = "public"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ALMANAC_"
)

// Content source kinds.
const (
	SourceFS = "fs"
	SourceS3 = "s3"
)

// Config represents the complete almanac.json configuration.
type Config struct {
	// Name is the site name shown in logs and the CLI.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Content says where the content tree lives.
	Content ContentConfig `json:"content,omitempty"`

	// Static contains presentation bundle configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Session contains reader session configuration.
	Session SessionConfig `json:"session,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// DefaultMode is the display mode of new sessions ("light" or "dark").
	DefaultMode string `json:"defaultMode,omitempty"`

	// Dev relaxes caching and enables debug logging.
	Dev bool `json:"dev,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ReadTimeout bounds reading a request (e.g., "10s").
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout bounds writing a response (e.g., "30s").
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// ContentConfig selects the content source.
type ContentConfig struct {
	// Source is "fs" or "s3".
	Source string `json:"source,omitempty"`

	// Dir is the content tree root for the fs source.
	Dir string `json:"dir,omitempty"`

	// S3 configures the s3 source.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates the content tree in a bucket. Credentials are only
// taken from the environment and never written back to almanac.json.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`

	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
	SessionToken    string `json:"-"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing the presentation bundle.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/").
	Prefix string `json:"prefix,omitempty"`
}

// SessionConfig contains reader session settings.
type SessionConfig struct {
	// IdleTTL is how long an idle session is kept (e.g., "30m").
	IdleTTL string `json:"idleTTL,omitempty"`

	// MaxSessions caps concurrent sessions; 0 means unlimited.
	MaxSessions int `json:"maxSessions,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace prefixes metric names (default: "almanac").
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for almanac.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, returning defaults when the directory has no
// almanac.json.
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("A120").
				WithDetail("No almanac.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'almanac init' to write a default almanac.json")
		}
		return nil, errors.New("A120").Wrap(err)
	}

	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("A120").
			WithDetail("Failed to parse almanac.json: " + err.Error()).
			WithSuggestion("Check that almanac.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("A120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("A120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or "." when the
// config was not loaded from a file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "almanac"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}

	if c.Content.Source == "" {
		c.Content.Source = SourceFS
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}

	if c.Static.Dir == "" {
		c.Static.Dir = DefaultStaticDir
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}

	if c.Session.IdleTTL == "" {
		c.Session.IdleTTL = "30m"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "almanac"
	}
	if c.DefaultMode == "" {
		c.DefaultMode = "light"
	}
}

// ApplyEnv overrides fields from ALMANAC_* variables found by lookup
// (usually os.LookupEnv). S3 credentials come from the standard AWS
// variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("A121").WithDetailf("%s%s=%q is not a boolean", EnvPrefix, name, v)
		}
		*dst = b
		return nil
	}

	str("HOST", &c.Server.Host)
	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("A121").WithDetailf("%sPORT=%q is not a number", EnvPrefix, v)
		}
		c.Server.Port = port
	}
	str("CONTENT_SOURCE", &c.Content.Source)
	str("CONTENT_DIR", &c.Content.Dir)
	str("S3_BUCKET", &c.Content.S3.Bucket)
	str("S3_PREFIX", &c.Content.S3.Prefix)
	str("S3_ENDPOINT", &c.Content.S3.Endpoint)
	str("S3_REGION", &c.Content.S3.Region)
	if c.Content.S3.Region == "" {
		if v, ok := lookup("AWS_REGION"); ok {
			c.Content.S3.Region = v
		}
	}
	if err := boolean("S3_PATH_STYLE", &c.Content.S3.UsePathStyle); err != nil {
		return err
	}
	str("STATIC_DIR", &c.Static.Dir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("DEFAULT_MODE", &c.DefaultMode)
	if err := boolean("DEV", &c.Dev); err != nil {
		return err
	}
	if err := boolean("METRICS", &c.Metrics.Enabled); err != nil {
		return err
	}

	if v, ok := lookup("AWS_ACCESS_KEY_ID"); ok {
		c.Content.S3.AccessKeyID = v
	}
	if v, ok := lookup("AWS_SECRET_ACCESS_KEY"); ok {
		c.Content.S3.SecretAccessKey = v
	}
	if v, ok := lookup("AWS_SESSION_TOKEN"); ok {
		c.Content.S3.SessionToken = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("A121").
			WithDetail("Port must be between 0 and 65535")
	}
	switch c.Content.Source {
	case SourceFS:
	case SourceS3:
		if c.Content.S3.Bucket == "" {
			return errors.New("A121").
				WithDetail("content.s3.bucket is required when content.source is \"s3\"")
		}
	default:
		return errors.New("A121").
			WithDetailf("content.source %q is not one of fs, s3", c.Content.Source)
	}
	for name, v := range map[string]string{
		"server.readTimeout":  c.Server.ReadTimeout,
		"server.writeTimeout": c.Server.WriteTimeout,
		"session.idleTTL":     c.Session.IdleTTL,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return errors.New("A121").WithDetailf("%s %q is not a positive duration", name, v)
		}
	}
	if c.Session.MaxSessions < 0 {
		return errors.New("A121").WithDetail("session.maxSessions must not be negative")
	}
	switch strings.ToLower(c.DefaultMode) {
	case "light", "dark":
	default:
		return errors.New("A121").WithDetailf("defaultMode %q is not light or dark", c.DefaultMode)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("A121").WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ContentPath returns the content directory, relative to the config file
// when not absolute.
func (c *Config) ContentPath() string {
	return c.resolve(c.Content.Dir)
}

// StaticPath returns the static directory, relative to the config file
// when not absolute.
func (c *Config) StaticPath() string {
	return c.resolve(c.Static.Dir)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// ReadTimeout returns the parsed read timeout. Call Validate first.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed write timeout. Call Validate first.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// IdleTTL returns the parsed session idle TTL. Call Validate first.
func (c *Config) IdleTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.IdleTTL)
	return d
}
