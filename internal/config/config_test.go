package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "feedsync", cfg.Database.DBName)

	assert.Equal(t, 300*time.Millisecond, cfg.Feed.DelayMin)
	assert.Equal(t, 2*time.Second, cfg.Feed.DelayMax)

	assert.Equal(t, "en-ZA", cfg.Browser.Locale)
	assert.Equal(t, "Africa/Johannesburg", cfg.Browser.TimezoneID)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("FEED_DELAY_MIN", "1s")
	t.Setenv("FEED_PAGE_SIZE", "50")
	t.Setenv("BROWSER_HEADLESS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, time.Second, cfg.Feed.DelayMin)
	assert.Equal(t, 50, cfg.Feed.PageSize)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoad_MalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("FEED_DELAY_MIN", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.Feed.DelayMin)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "delay min above max",
			mutate:  func(c *Config) { c.Feed.DelayMin = 5 * time.Second },
			wantErr: "FEED_DELAY_MIN",
		},
		{
			name:    "negative page size",
			mutate:  func(c *Config) { c.Feed.PageSize = -1 },
			wantErr: "FEED_PAGE_SIZE",
		},
		{
			name:    "zero max conns",
			mutate:  func(c *Config) { c.Database.MaxConns = 0 },
			wantErr: "DB_MAX_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
