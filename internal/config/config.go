package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/ingest"
	"github.com/spf13/viper"
)

// Config holds the settings every spectrum command reads.
type Config struct {
	DatabasePath string
	DataPath     string
	Encoding     string
	TimeZone     string
	ServerAddr   string
	LogLevel     string
	LogFormat    string
	Analytics    analytics.Options
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UseSnapshot  bool
	TLS          bool
	CertDir      string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DatabasePath: "~/.local/share/spectrum/spectrum.db",
		Encoding:     ingest.EncodingLatin1,
		TimeZone:     "UTC",
		ServerAddr:   ":8080",
		LogLevel:     "info",
		LogFormat:    "console",
		Analytics:    analytics.DefaultOptions(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		CertDir:      "~/.config/spectrum/certs",
	}
}

// SetDefaults registers the defaults with viper so that config files and
// SPECTRUM_ environment variables can override individual keys.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("database.path", d.DatabasePath)
	v.SetDefault("ingest.encoding", d.Encoding)
	v.SetDefault("ingest.timezone", d.TimeZone)
	v.SetDefault("server.addr", d.ServerAddr)
	v.SetDefault("server.read_timeout", d.ReadTimeout)
	v.SetDefault("server.write_timeout", d.WriteTimeout)
	v.SetDefault("server.tls", d.TLS)
	v.SetDefault("server.cert_dir", d.CertDir)
	v.SetDefault("logging.level", d.LogLevel)
	v.SetDefault("logging.format", d.LogFormat)
	v.SetDefault("model.clusters", d.Analytics.Clusters)
	v.SetDefault("model.top_n", d.Analytics.TopN)
	v.SetDefault("model.seed", d.Analytics.Seed)
	v.SetDefault("model.restarts", d.Analytics.Restarts)
	v.SetDefault("model.max_iterations", d.Analytics.MaxIterations)
	v.SetDefault("model.use_snapshot", d.UseSnapshot)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Config{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		DataPath:     ExpandPath(v.GetString("ingest.data")),
		Encoding:     v.GetString("ingest.encoding"),
		TimeZone:     v.GetString("ingest.timezone"),
		ServerAddr:   v.GetString("server.addr"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		TLS:          v.GetBool("server.tls"),
		CertDir:      ExpandPath(v.GetString("server.cert_dir")),
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		UseSnapshot:  v.GetBool("model.use_snapshot"),
		Analytics: analytics.Options{
			Clusters:      v.GetInt("model.clusters"),
			TopN:          v.GetInt("model.top_n"),
			Seed:          v.GetUint64("model.seed"),
			Restarts:      v.GetInt("model.restarts"),
			MaxIterations: v.GetInt("model.max_iterations"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path is required", common.ErrConfiguration)
	}
	if c.DatabasePath != ":memory:" && !filepath.IsAbs(c.DatabasePath) {
		abs, err := filepath.Abs(c.DatabasePath)
		if err != nil {
			return fmt.Errorf("%w: database.path: %w", common.ErrConfiguration, err)
		}
		c.DatabasePath = abs
	}

	switch c.Encoding {
	case ingest.EncodingLatin1, ingest.EncodingUTF8:
	default:
		return fmt.Errorf("%w: ingest.encoding must be %q or %q, got %q",
			common.ErrConfiguration, ingest.EncodingLatin1, ingest.EncodingUTF8, c.Encoding)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("%w: invalid log format: %s", common.ErrConfiguration, c.LogFormat)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", common.ErrConfiguration)
	}

	return c.Analytics.Validate()
}

// Location resolves the configured time zone used for naive timestamps.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: ingest.timezone: %w", common.ErrConfiguration, err)
	}
	return loc, nil
}

// IngestOptions returns the CSV reader options for this configuration.
func (c *Config) IngestOptions() (ingest.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{Location: loc, Encoding: c.Encoding}, nil
}
