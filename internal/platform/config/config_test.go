package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DIPLOMA_CONFIG_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Throttle.RequestsPerMinute)
	assert.Equal(t, WindowFixed, cfg.Throttle.Window)
	assert.Empty(t, cfg.Server.TrustedProxies)
	require.NotNil(t, cfg.Diploma.CheckAfterDate())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *cfg.Diploma.CheckAfterDate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DIPLOMA_REQUESTS_PER_MINUTE", "12")
	t.Setenv("DIPLOMA_THROTTLE_WINDOW", "Sliding")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SOTA_API_TIMEOUT", "5s")
	t.Setenv("DIPLOMA_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)

	assert.Equal(t, 12, cfg.Throttle.RequestsPerMinute)
	assert.Equal(t, WindowSliding, cfg.Throttle.Window)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.SOTA.Timeout)
}

func TestFromEnvYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diploma.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
diploma:
  check_after: "2024-05-01"
throttle:
  requests_per_minute: 3
sota:
  roster_cache_ttl: 15m
`), 0o600))
	t.Setenv("DIPLOMA_CONFIG_FILE", path)
	t.Setenv("DIPLOMA_REQUESTS_PER_MINUTE", "7")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", cfg.Diploma.CheckAfter)
	assert.Equal(t, 15*time.Minute, cfg.SOTA.RosterCacheTTL)
	assert.Equal(t, 7, cfg.Throttle.RequestsPerMinute, "environment wins over file")
	assert.Equal(t, ":8080", cfg.Server.Addr, "absent keys keep defaults")
}

func TestFromEnvValidation(t *testing.T) {
	t.Setenv("DIPLOMA_CHECK_AFTER", "01/01/2023")
	t.Setenv("DIPLOMA_THROTTLE_WINDOW", "leaky")
	t.Setenv("SUMMIT_SYNC_SCHEDULE", "every day")
	t.Setenv("DATABASE_URL", "mysql://localhost/diploma")
	t.Setenv("DIPLOMA_REQUESTS_PER_MINUTE", "abc")
	t.Setenv("DIPLOMA_TRUSTED_PROXIES", "10.0.0.0/33")

	_, err := FromEnv()
	require.Error(t, err)
	for _, want := range []string{
		"DIPLOMA_CHECK_AFTER",
		"DIPLOMA_THROTTLE_WINDOW",
		"SUMMIT_SYNC_SCHEDULE",
		"DATABASE_URL",
		"DIPLOMA_REQUESTS_PER_MINUTE: invalid integer",
		"DIPLOMA_TRUSTED_PROXIES",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestCheckAfterDateEmpty(t *testing.T) {
	assert.Nil(t, DiplomaConfig{}.CheckAfterDate())
}
