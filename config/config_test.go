// server/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply without file or env", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "3031", cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:3061"}, cfg.Notify.Bases)
		assert.Equal(t, "2–5", cfg.Notify.EstDeliveryDays)
		assert.Equal(t, 8*time.Second, cfg.UpstreamTimeout())
	})

	t.Run("env overrides, comma-separated notify bases", func(t *testing.T) {
		t.Setenv("NOTIFY_BASES", "http://notify-a:3061,http://notify-b:3061")
		t.Setenv("SERVER_PORT", "4000")
		t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "3")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "4000", cfg.Server.Port)
		assert.Equal(t, []string{"http://notify-a:3061", "http://notify-b:3061"}, cfg.Notify.Bases)
		assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout())
	})
}
