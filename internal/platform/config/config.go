// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of calendar dates in configuration values.
const DateLayout = "2006-01-02"

// Throttle window policies.
const (
	WindowFixed   = "fixed"
	WindowSliding = "sliding"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Diploma  DiplomaConfig  `yaml:"diploma"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	SOTA     SOTAConfig     `yaml:"sota"`
	Summits  SummitsConfig  `yaml:"summits"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AdminToken      string        `yaml:"admin_token"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustedProxies lists the CIDR ranges or addresses of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Empty means
	// the client IP is always the TCP peer.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DiplomaConfig holds the eligibility settings.
type DiplomaConfig struct {
	// CheckAfter is the first date (YYYY-MM-DD) whose activity counts. Empty
	// means all history.
	CheckAfter string `yaml:"check_after"`
}

// CheckAfterDate returns the parsed CheckAfter date, or nil when unset.
func (d DiplomaConfig) CheckAfterDate() *time.Time {
	if d.CheckAfter == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, d.CheckAfter)
	if err != nil {
		return nil
	}
	return &t
}

type ThrottleConfig struct {
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Window            string `yaml:"window"`
}

// RedisConfig configures the throttle counter store. An empty URL selects the
// in-process store.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig selects the SQL backend by URL scheme (postgres:// or
// sqlite://). An empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type SOTAConfig struct {
	BaseURL          string        `yaml:"base_url"`
	ActivationsURL   string        `yaml:"activations_url"`
	Timeout          time.Duration `yaml:"timeout"`
	RosterCacheTTL   time.Duration `yaml:"roster_cache_ttl"`
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
}

type SummitsConfig struct {
	ListURL                   string `yaml:"list_url"`
	SyncSchedule              string `yaml:"sync_schedule"`
	SyncOnStartup             bool   `yaml:"sync_on_startup"`
	CacheInvalidationSchedule string `yaml:"cache_invalidation_schedule"`
}

// KafkaConfig configures the diploma-requested publisher. No brokers means
// requests are only logged.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Diploma: DiplomaConfig{
			CheckAfter: "2023-01-01",
		},
		Throttle: ThrottleConfig{
			RequestsPerMinute: 5,
			Window:            WindowFixed,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
		},
		SOTA: SOTAConfig{
			BaseURL:          "https://api-db.sota.org.uk",
			ActivationsURL:   "https://api2.sota.org.uk",
			Timeout:          30 * time.Second,
			RosterCacheTTL:   6 * time.Hour,
			FailureThreshold: 4,
			SuccessThreshold: 10,
			BreakerCooldown:  10 * time.Second,
		},
		Summits: SummitsConfig{
			ListURL:                   "https://storage.sota.org.uk/summitslist.csv",
			SyncSchedule:              "0 3 * * *",
			SyncOnStartup:             true,
			CacheInvalidationSchedule: "0 4 * * *",
		},
		Kafka: KafkaConfig{
			Topic: "diploma.requested",
		},
		LogLevel: "info",
	}
}

// FromEnv builds the configuration: defaults, then the YAML file named by
// DIPLOMA_CONFIG_FILE (if any), then environment overrides. The result is
// validated.
func FromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv("DIPLOMA_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := Overlay(&cfg, raw); err != nil {
			return Config{}, err
		}
	}

	var errs []string
	applyEnv(&cfg, &errs)
	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return cfg, nil
}

// Overlay decodes YAML onto cfg. Keys absent from the document keep their
// current values.
func Overlay(cfg *Config, raw []byte) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, errs *[]string) {
	cfg.Server.Addr = envStr("DIPLOMA_ADDR", cfg.Server.Addr)
	cfg.Server.AdminToken = envStr("ADMIN_API_TOKEN", cfg.Server.AdminToken)
	cfg.Server.ShutdownTimeout = envDuration("DIPLOMA_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout, errs)
	if v, ok := os.LookupEnv("DIPLOMA_TRUSTED_PROXIES"); ok {
		cfg.Server.TrustedProxies = splitList(v)
	}

	cfg.Diploma.CheckAfter = envStr("DIPLOMA_CHECK_AFTER", cfg.Diploma.CheckAfter)

	cfg.Throttle.RequestsPerMinute = envInt("DIPLOMA_REQUESTS_PER_MINUTE", cfg.Throttle.RequestsPerMinute, errs)
	cfg.Throttle.Window = strings.ToLower(envStr("DIPLOMA_THROTTLE_WINDOW", cfg.Throttle.Window))

	cfg.Redis.URL = envStr("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.PoolSize = envInt("REDIS_POOL_SIZE", cfg.Redis.PoolSize, errs)
	cfg.Redis.MinIdleConns = envInt("REDIS_MIN_IDLE_CONNS", cfg.Redis.MinIdleConns, errs)
	cfg.Redis.DialTimeout = envDuration("REDIS_DIAL_TIMEOUT", cfg.Redis.DialTimeout, errs)
	cfg.Redis.ReadTimeout = envDuration("REDIS_READ_TIMEOUT", cfg.Redis.ReadTimeout, errs)
	cfg.Redis.WriteTimeout = envDuration("REDIS_WRITE_TIMEOUT", cfg.Redis.WriteTimeout, errs)

	cfg.Database.URL = envStr("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = envInt("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns, errs)

	cfg.SOTA.BaseURL = envStr("SOTA_API_URL", cfg.SOTA.BaseURL)
	cfg.SOTA.ActivationsURL = envStr("SOTA_ACTIVATIONS_API_URL", cfg.SOTA.ActivationsURL)
	cfg.SOTA.Timeout = envDuration("SOTA_API_TIMEOUT", cfg.SOTA.Timeout, errs)
	cfg.SOTA.RosterCacheTTL = envDuration("SOTA_ROSTER_CACHE_TTL", cfg.SOTA.RosterCacheTTL, errs)
	cfg.SOTA.FailureThreshold = envInt("SOTA_BREAKER_FAILURE_THRESHOLD", cfg.SOTA.FailureThreshold, errs)
	cfg.SOTA.SuccessThreshold = envInt("SOTA_BREAKER_SUCCESS_THRESHOLD", cfg.SOTA.SuccessThreshold, errs)
	cfg.SOTA.BreakerCooldown = envDuration("SOTA_BREAKER_COOLDOWN", cfg.SOTA.BreakerCooldown, errs)

	cfg.Summits.ListURL = envStr("SUMMIT_LIST_URL", cfg.Summits.ListURL)
	cfg.Summits.SyncSchedule = envStr("SUMMIT_SYNC_SCHEDULE", cfg.Summits.SyncSchedule)
	cfg.Summits.SyncOnStartup = envBool("SUMMIT_SYNC_ON_STARTUP", cfg.Summits.SyncOnStartup, errs)
	cfg.Summits.CacheInvalidationSchedule = envStr("CACHE_INVALIDATION_SCHEDULE", cfg.Summits.CacheInvalidationSchedule)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = envStr("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
}

func (c Config) validate() []string {
	var errs []string
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, "DIPLOMA_ADDR must not be empty")
	}
	for _, proxy := range c.Server.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Sprintf("DIPLOMA_TRUSTED_PROXIES: invalid CIDR or address %q", proxy))
		}
	}
	if c.Diploma.CheckAfter != "" {
		if _, err := time.Parse(DateLayout, c.Diploma.CheckAfter); err != nil {
			errs = append(errs, fmt.Sprintf("DIPLOMA_CHECK_AFTER: invalid date %q (want YYYY-MM-DD)", c.Diploma.CheckAfter))
		}
	}
	validatePositive("DIPLOMA_REQUESTS_PER_MINUTE", c.Throttle.RequestsPerMinute, &errs)
	if c.Throttle.Window != WindowFixed && c.Throttle.Window != WindowSliding {
		errs = append(errs, fmt.Sprintf("DIPLOMA_THROTTLE_WINDOW: must be %q or %q, got %q", WindowFixed, WindowSliding, c.Throttle.Window))
	}
	if c.Database.URL != "" && !strings.HasPrefix(c.Database.URL, "postgres://") &&
		!strings.HasPrefix(c.Database.URL, "postgresql://") && !strings.HasPrefix(c.Database.URL, "sqlite://") {
		errs = append(errs, "DATABASE_URL: scheme must be postgres:// or sqlite://")
	}
	if c.SOTA.Timeout <= 0 {
		errs = append(errs, "SOTA_API_TIMEOUT must be positive")
	}
	if c.SOTA.RosterCacheTTL <= 0 {
		errs = append(errs, "SOTA_ROSTER_CACHE_TTL must be positive")
	}
	validatePositive("SOTA_BREAKER_FAILURE_THRESHOLD", c.SOTA.FailureThreshold, &errs)
	validatePositive("SOTA_BREAKER_SUCCESS_THRESHOLD", c.SOTA.SuccessThreshold, &errs)
	for name, schedule := range map[string]string{
		"SUMMIT_SYNC_SCHEDULE":        c.Summits.SyncSchedule,
		"CACHE_INVALIDATION_SCHEDULE": c.Summits.CacheInvalidationSchedule,
	} {
		if schedule == "" {
			continue
		}
		if _, err := cron.ParseStandard(schedule); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid cron expression %q: %v", name, schedule, err))
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, "KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	return errs
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envBool(key string, defaultVal bool, errs *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid boolean %q", key, v))
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validProxy(v string) bool {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		_, err := netip.ParsePrefix(v)
		return err == nil
	}
	_, err := netip.ParseAddr(v)
	return err == nil
}

func validatePositive(name string, value int, errs *[]string) {
	if value <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s: must be positive, got %d", name, value))
	}
}
