// internal/config/config_test.go
package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilcroft/pagelens/internal/config"
)

func loadDefaults(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestDefaultsAreRunnable(t *testing.T) {
	cfg := loadDefaults(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "pagelens", cfg.Logger.ServiceName)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Browser.NetworkIdleWindow)
	assert.Equal(t, 0.1, cfg.Engine.OpacityEpsilon)
	assert.Equal(t, 32, cfg.Engine.LabelMaxLen)
	assert.Equal(t, 50000, cfg.Engine.MaxNodes)
}

func TestYAMLOverridesDefaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
logger:
  level: debug
  format: json
browser:
  headless: false
  viewport_width: 1920
  viewport_height: 1080
engine:
  opacity_epsilon: 0.05
  dynamic_container_classes:
    - lightbox
    - drawer
`)))

	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 0.05, cfg.Engine.OpacityEpsilon)
	assert.Equal(t, []string{"lightbox", "drawer"}, cfg.Engine.DynamicContainerClasses)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "opacity epsilon at one",
			mutate: func(c *config.Config) { c.Engine.OpacityEpsilon = 1 },
			want:   "opacity_epsilon",
		},
		{
			name:   "negative opacity epsilon",
			mutate: func(c *config.Config) { c.Engine.OpacityEpsilon = -0.2 },
			want:   "opacity_epsilon",
		},
		{
			name:   "negative label length",
			mutate: func(c *config.Config) { c.Engine.LabelMaxLen = -1 },
			want:   "label_max_len",
		},
		{
			name:   "zero viewport",
			mutate: func(c *config.Config) { c.Browser.ViewportWidth = 0 },
			want:   "viewport",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
