package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WORKWALE_CONFIG is set
//  3. env (prefix WORKWALE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("WORKWALE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: WORKWALE_ADDR, WORKWALE_SCORE_FLOOR, ...
	// Keys map onto the flat koanf tags on the struct, underscores preserved.
	envProvider := env.Provider("WORKWALE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "workwale_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RescoreQueueSize < 1:
		return fmt.Errorf("%w: rescore_queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.ScoreDeadlineMS < 1:
		return fmt.Errorf("%w: score_deadline_ms must be positive", ErrInvalidConfig)
	case c.ScoreFloor < 0 || c.ScoreFloor > 100:
		return fmt.Errorf("%w: score_floor must be within [0,100]", ErrInvalidConfig)
	}
	if c.SkillWeight < 0 || c.LocationWeight < 0 || c.SalaryWeight < 0 || c.WorkTypeWeight < 0 {
		return fmt.Errorf("%w: feature weights must not be negative", ErrInvalidConfig)
	}
	if c.SkillWeight+c.LocationWeight+c.SalaryWeight+c.WorkTypeWeight == 0 {
		return fmt.Errorf("%w: at least one feature weight must be positive", ErrInvalidConfig)
	}
	return nil
}
