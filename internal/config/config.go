// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded from YAML and
// PAGELENS_* environment variables through viper.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
}

// LoggerConfig controls the zap logger and its optional rotating file sink.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color per log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig tunes the chromedp host: process flags, navigation waits and
// the network-idle settle used before every observation.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	NoSandbox         bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	ViewportWidth     int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight    int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	NetworkIdleWait   time.Duration `mapstructure:"network_idle_wait" yaml:"network_idle_wait"`
	NetworkIdleWindow time.Duration `mapstructure:"network_idle_window" yaml:"network_idle_window"`
	ObserveTimeout    time.Duration `mapstructure:"observe_timeout" yaml:"observe_timeout"`
}

// EngineConfig carries the site-tuned knobs of the simplification engine.
// The opacity epsilon and the reachability heuristic are approximations, so
// they are configuration, not constants.
type EngineConfig struct {
	OpacityEpsilon          float64  `mapstructure:"opacity_epsilon" yaml:"opacity_epsilon"`
	LabelMaxLen             int      `mapstructure:"label_max_len" yaml:"label_max_len"`
	DynamicContainerClasses []string `mapstructure:"dynamic_container_classes" yaml:"dynamic_container_classes"`
	MaxNodes                int      `mapstructure:"max_nodes" yaml:"max_nodes"`
}

// SetDefaults registers every default on the given viper instance. Call
// before ReadInConfig so a missing file still yields a runnable config.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "pagelens")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 900)
	v.SetDefault("browser.navigation_timeout", 30*time.Second)
	v.SetDefault("browser.network_idle_wait", 10*time.Second)
	v.SetDefault("browser.network_idle_window", 500*time.Millisecond)
	v.SetDefault("browser.observe_timeout", 20*time.Second)

	v.SetDefault("engine.opacity_epsilon", 0.1)
	v.SetDefault("engine.label_max_len", 32)
	v.SetDefault("engine.max_nodes", 50000)
}

// Validate rejects configurations the runtime cannot honor.
func (c *Config) Validate() error {
	if c.Engine.OpacityEpsilon < 0 || c.Engine.OpacityEpsilon >= 1 {
		return fmt.Errorf("engine.opacity_epsilon must be in [0,1), got %g", c.Engine.OpacityEpsilon)
	}
	if c.Engine.LabelMaxLen < 0 {
		return fmt.Errorf("engine.label_max_len must be non-negative, got %d", c.Engine.LabelMaxLen)
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport must be positive, got %dx%d",
			c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}
	return nil
}
