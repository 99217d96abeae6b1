package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Tasks
		MigrationSweep
		Sessions
		Reader
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	MigrationSweep struct {
		Enabled  bool
		Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Sessions struct {
		Lifetime      time.Duration
		SecureCookies bool   // Set to false for local dev without HTTPS
		CSRFSecret    string // 32 bytes; CSRF protection is off when empty
	}
	Reader struct {
		AllowSharing bool
		// HostTimeout bounds every script evaluation against a page.
		HostTimeout time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("migration_sweep_enabled", false)
	v.SetDefault("migration_sweep_schedule", "*/30 * * * *")

	v.SetDefault("session_lifetime", "720h") // 30 days
	v.SetDefault("session_secure_cookies", true)
	v.SetDefault("csrf_secret", "")

	v.SetDefault("reader_allow_sharing", true)
	v.SetDefault("reader_host_timeout", "5s")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		MigrationSweep: MigrationSweep{
			Enabled:  v.GetBool("MIGRATION_SWEEP_ENABLED"),
			Schedule: v.GetString("MIGRATION_SWEEP_SCHEDULE"),
		},
		Sessions: Sessions{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		Reader: Reader{
			AllowSharing: v.GetBool("READER_ALLOW_SHARING"),
			HostTimeout:  v.GetDuration("READER_HOST_TIMEOUT"),
		},
	}
}
