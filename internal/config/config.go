// Package config loads and validates robotsmap configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgents is the browser User-Agent pool rotated across fetch attempts.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.80",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Mobile/15E148 Safari/604.1",
}

// Config captures all robotsmap configuration knobs loaded via Viper.
type Config struct {
	Fetch   FetchConfig   `mapstructure:"fetch"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Output  OutputConfig  `mapstructure:"output"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// FetchConfig governs the retry loop used for robots.txt and sitemap.xml.
type FetchConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	UserAgents  []string      `mapstructure:"user_agents"`
}

// HTTPConfig configures per-request limits.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ProbeConfig configures the reachability probe run before fetching.
type ProbeConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// OutputConfig sets where per-target directories are created.
type OutputConfig struct {
	BaseDir    string `mapstructure:"base_dir"`
	ShowRobots bool   `mapstructure:"show_robots"`
}

// StorageConfig enables optional artifact mirrors.
type StorageConfig struct {
	GCSBucket string `mapstructure:"gcs_bucket"`
	GCSPrefix string `mapstructure:"gcs_prefix"`
}

// LogConfig toggles zap development features and sinks.
type LogConfig struct {
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
	Console     bool   `mapstructure:"console"`
}

// MetricsConfig controls the prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ROBOTSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.base_delay", "5s")
	v.SetDefault("fetch.user_agents", DefaultUserAgents)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("probe.timeout_seconds", 10)
	v.SetDefault("output.base_dir", ".")
	v.SetDefault("output.show_robots", true)
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.gcs_prefix", "")
	v.SetDefault("log.file", "robots_sitemap_log.log")
	v.SetDefault("log.development", false)
	v.SetDefault("log.console", false)
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Fetch.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	if c.Fetch.BaseDelay < 0 {
		return fmt.Errorf("fetch.base_delay must be >= 0")
	}
	if len(c.Fetch.UserAgents) == 0 {
		return fmt.Errorf("fetch.user_agents must include at least one user agent")
	}
	for _, ua := range c.Fetch.UserAgents {
		if strings.TrimSpace(ua) == "" {
			return fmt.Errorf("fetch.user_agents must not contain blank entries")
		}
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Probe.TimeoutSeconds <= 0 {
		return fmt.Errorf("probe.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Output.BaseDir) == "" {
		return fmt.Errorf("output.base_dir must be set")
	}
	if strings.TrimSpace(c.Log.File) == "" && !c.Log.Console {
		return fmt.Errorf("log.file must be set when console logging is disabled")
	}
	return nil
}

// RequestTimeout converts the HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// ProbeTimeout converts the probe timeout into a duration.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}
