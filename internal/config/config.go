// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RescoreQueueSize bounds the in-memory rescore request queue.
	RescoreQueueSize int `koanf:"rescore_queue_size"`

	// WorkerCount sets the number of rescore workers.
	WorkerCount int `koanf:"worker_count"`

	// ScoreParallelism bounds concurrent pair scoring inside one run.
	ScoreParallelism int `koanf:"score_parallelism"`

	// ScoreDeadlineMS caps a scoring run; on expiry the run yields a
	// partial result instead of an error.
	ScoreDeadlineMS int `koanf:"score_deadline_ms"`

	// ScoreFloor discards match records below this score during ranking.
	ScoreFloor float64 `koanf:"score_floor"`

	// Feature weights for the matching engine. Normalized to sum 1 before use.
	SkillWeight    float64 `koanf:"skill_weight"`
	LocationWeight float64 `koanf:"location_weight"`
	SalaryWeight   float64 `koanf:"salary_weight"`
	WorkTypeWeight float64 `koanf:"work_type_weight"`

	// MaxPageLimit caps the limit parameter on match list queries.
	MaxPageLimit int `koanf:"max_page_limit"`

	// RescoreCronSpec drives the periodic full rescore sweep, e.g. "@every 6h".
	RescoreCronSpec string `koanf:"rescore_cron_spec"`

	// PostgresDSN selects the Postgres store when set; empty keeps the
	// in-memory store.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr enables the Redis pub/sub event emitter when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		RescoreQueueSize: 10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		ScoreParallelism: runtime.NumCPU(),
		ScoreDeadlineMS:  2_000,
		ScoreFloor:       50,
		SkillWeight:      0.50,
		LocationWeight:   0.20,
		SalaryWeight:     0.15,
		WorkTypeWeight:   0.15,
		MaxPageLimit:     100,
		RescoreCronSpec:  "@every 6h",
	}
}
