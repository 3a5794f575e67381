// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "bankjourney", cfg.Logger.ServiceName)
	assert.Equal(t, "https://parabank.parasoft.com", cfg.Target.BaseURL)
	assert.Equal(t, "https://parabank.parasoft.com/parabank/services/bank", cfg.Target.APIBaseURL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Network.DefaultTimeout)
	assert.Equal(t, 60*time.Second, cfg.Network.NavigationTimeout)
	assert.Equal(t, 0, cfg.Run.RetryAttempts)
	assert.Equal(t, "test-data.json", cfg.Run.StateFile)
	assert.False(t, cfg.Run.ScreenshotOnFailure)
}

func TestConfigValidation(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing base url", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Target.BaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target.base_url")
	})

	t.Run("negative retry attempts", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Run.RetryAttempts = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run.retry_attempts")
	})

	t.Run("non positive timeout", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Network.DefaultTimeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network.default_timeout")
	})
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("target.base_url", "http://localhost:8080")
		v.Set("network.navigation_timeout", "5s")
		v.Set("run.retry_attempts", 2)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.Target.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Network.NavigationTimeout)
		assert.Equal(t, 2, cfg.Run.RetryAttempts)
	})

	t.Run("expands home in state file path", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		v := viper.New()
		SetDefaults(v)
		v.Set("run.state_file", "~/state/test-data.json")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "state", "test-data.json"), cfg.Run.StateFile)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("run.state_file", "")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bankjourney.yaml")
	contents := []byte("target:\n  base_url: http://bank.local\nnetwork:\n  post_load_wait: 250ms\n")
	require.NoError(t, os.WriteFile(cfgPath, contents, 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "http://bank.local", cfg.Target.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Network.PostLoadWait)
	// Untouched fields keep their defaults.
	assert.Equal(t, "https://parabank.parasoft.com/parabank/services/bank", cfg.Target.APIBaseURL)
}
