package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Digest    DigestConfig    `mapstructure:"digest"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// SchedulerConfig tunes the reminder dispatch loop. The lead windows are
// fixed by design; the knobs here are the poll cadence and retention.
type SchedulerConfig struct {
	// PollInterval is the dispatcher tick period. The lead windows are
	// ±5 minutes wide, so this must stay at or below 5 minutes for a
	// delayed tick to still land inside a window.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// GracePeriod is how long past its start an event is retained
	// before the purge removes it.
	GracePeriod time.Duration `mapstructure:"grace_period"`
	// SendTimeout bounds a single notification-sink call. Expiry counts
	// as a failed send: logged, bucket unmarked, retried next tick.
	SendTimeout time.Duration `mapstructure:"send_timeout"`
	// DestinationCacheTTL bounds how stale a cached guild destination
	// may be before the settings store is consulted again.
	DestinationCacheTTL time.Duration `mapstructure:"destination_cache_ttl"`
}

type NotifierConfig struct {
	// Kind selects the sink implementation: "redis" or "email".
	Kind  string      `mapstructure:"kind"`
	Email EmailConfig `mapstructure:"email"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type DigestConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a cron expression in UTC, e.g. "0 9 * * *".
	Schedule string `mapstructure:"schedule"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("scheduler.poll_interval", time.Minute)
	viper.SetDefault("scheduler.grace_period", time.Hour)
	viper.SetDefault("scheduler.send_timeout", 5*time.Second)
	viper.SetDefault("scheduler.destination_cache_ttl", 5*time.Minute)
	viper.SetDefault("notifier.kind", "redis")
	viper.SetDefault("digest.enabled", false)
	viper.SetDefault("digest.schedule", "0 9 * * *")
}
