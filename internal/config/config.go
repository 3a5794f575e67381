// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the full runner configuration. Values come from defaults,
// an optional YAML file, and BANKJOURNEY_* environment variables, in
// increasing order of precedence.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Target  TargetConfig  `mapstructure:"target" yaml:"target"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// TargetConfig identifies the deployment under test. The application itself
// is an external collaborator; only its entry URLs are configurable here.
type TargetConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless       bool     `mapstructure:"headless" yaml:"headless"`
	Args           []string `mapstructure:"args" yaml:"args"`
	ViewportWidth  int      `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
}

// NetworkConfig tunes waits and timeouts for UI and API traffic.
type NetworkConfig struct {
	DefaultTimeout    time.Duration `mapstructure:"default_timeout" yaml:"default_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
	APITimeout        time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
}

// RunConfig holds per-run behavior: retries, artifacts, and the location of
// the persisted cross-step state record.
type RunConfig struct {
	RetryAttempts       int    `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	ScreenshotOnFailure bool   `mapstructure:"screenshot_on_failure" yaml:"screenshot_on_failure"`
	ArtifactsDir        string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
	StateFile           string `mapstructure:"state_file" yaml:"state_file"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "bankjourney")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Target --
	v.SetDefault("target.base_url", "https://parabank.parasoft.com")
	v.SetDefault("target.api_base_url", "https://parabank.parasoft.com/parabank/services/bank")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 800)

	// -- Network --
	v.SetDefault("network.default_timeout", "30s")
	v.SetDefault("network.navigation_timeout", "60s")
	v.SetDefault("network.post_load_wait", "2s")
	v.SetDefault("network.api_timeout", "15s")

	// -- Run --
	v.SetDefault("run.retry_attempts", 0)
	v.SetDefault("run.screenshot_on_failure", false)
	v.SetDefault("run.artifacts_dir", "artifacts")
	v.SetDefault("run.state_file", "test-data.json")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; failure here is a programming error.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads configuration from an optional file plus the environment and
// returns the validated result. A missing config file is not an error; a
// missing .env file is not an error either.
func Load(cfgFile string) (*Config, error) {
	// Local .env support keeps parity with how the target app's other test
	// harnesses are configured. Absence is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("bankjourney")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BANKJOURNEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates a configuration from a viper
// instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The state file may live under the user's home directory.
	expanded, err := homedir.Expand(cfg.Run.StateFile)
	if err != nil {
		return nil, fmt.Errorf("invalid state file path %q: %w", cfg.Run.StateFile, err)
	}
	cfg.Run.StateFile = expanded

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Target.BaseURL == "" {
		return fmt.Errorf("target.base_url is a required configuration field")
	}
	if c.Target.APIBaseURL == "" {
		return fmt.Errorf("target.api_base_url is a required configuration field")
	}
	if c.Network.DefaultTimeout <= 0 {
		return fmt.Errorf("network.default_timeout must be a positive duration")
	}
	if c.Network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	if c.Run.RetryAttempts < 0 {
		return fmt.Errorf("run.retry_attempts must not be negative")
	}
	if c.Run.StateFile == "" {
		return fmt.Errorf("run.state_file is a required configuration field")
	}
	return nil
}
