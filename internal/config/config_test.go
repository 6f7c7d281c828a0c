package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"DB_DRIVER", "SERVER_PORT", "UCLOUD_ENDPOINT", "UCLOUD_PROXY_URL", "REFRESH_SCHEDULE", "ENVIRONMENT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "https://api.ucloud.cn/", cfg.UCloud.Endpoint)
	require.Equal(t, 10*time.Second, cfg.UCloud.Timeout)
	require.Equal(t, "@every 10m", cfg.Refresh.Schedule)
	require.True(t, cfg.Refresh.AlertCheckOnRefresh)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UCLOUD_TIMEOUT", "3s")
	t.Setenv("ALERT_CHECK_ON_REFRESH", "false")
	t.Setenv("NOTIFICATION_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 3*time.Second, cfg.UCloud.Timeout)
	require.False(t, cfg.Refresh.AlertCheckOnRefresh)
	require.Equal(t, 100, cfg.Refresh.NotificationLimit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Environment: "development"},
			Database: DatabaseConfig{Driver: "sqlite"},
			Auth:     AuthConfig{JWTSecret: "supersecretkey"},
			UCloud:   UCloudConfig{Endpoint: "https://api.ucloud.cn/", Timeout: time.Second},
			Refresh:  RefreshConfig{Schedule: "*/5 * * * *", PartitionCacheSize: 1, NotificationLimit: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty schedule disables scheduler", mutate: func(c *Config) { c.Refresh.Schedule = "" }},
		{name: "default secret in production", mutate: func(c *Config) { c.Server.Environment = "production" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "relative endpoint", mutate: func(c *Config) { c.UCloud.Endpoint = "api.ucloud.cn" }, wantErr: true},
		{name: "ftp proxy", mutate: func(c *Config) { c.UCloud.ProxyURL = "ftp://relay" }, wantErr: true},
		{name: "http proxy", mutate: func(c *Config) { c.UCloud.ProxyURL = "http://localhost:8080/api/v1/proxy" }},
		{name: "zero timeout", mutate: func(c *Config) { c.UCloud.Timeout = 0 }, wantErr: true},
		{name: "bad cron", mutate: func(c *Config) { c.Refresh.Schedule = "every now and then" }, wantErr: true},
		{name: "empty partition cache", mutate: func(c *Config) { c.Refresh.PartitionCacheSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
