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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if HARPER_CONFIG is set
//  3. env (prefix HARPER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HARPER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: HARPER_BOT_TOKEN, HARPER_OPERATOR_ID, ...
	// Map env keys like HARPER_BOT_TOKEN -> bot_token (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("HARPER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "harper_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
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
	if c.BotToken == "" {
		return fmt.Errorf("%w: bot_token must not be empty", ErrInvalidConfig)
	}
	if c.OperatorID == "" {
		return fmt.Errorf("%w: operator_id must not be empty", ErrInvalidConfig)
	}
	if c.OpsAddr == "" {
		return fmt.Errorf("%w: ops_addr must not be empty", ErrInvalidConfig)
	}
	if c.DispatchBudget <= 0 {
		return fmt.Errorf("%w: dispatch_budget must be positive", ErrInvalidConfig)
	}
	if c.MinIntervalSeconds <= 0 || c.MaxIntervalSeconds < c.MinIntervalSeconds {
		return fmt.Errorf("%w: interval bounds must satisfy 0 < min <= max", ErrInvalidConfig)
	}
	if c.MaxAnswerLength <= 0 {
		return fmt.Errorf("%w: max_answer_length must be positive", ErrInvalidConfig)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	}
	return nil
}
