// Package config defines process configuration and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// GatewayURL is the chat platform websocket endpoint.
	GatewayURL string `koanf:"gateway_url"`

	// BotToken authenticates the gateway session.
	BotToken string `koanf:"bot_token"`

	// ChannelIDs are the broadcast channels questions are posted to.
	// One is picked at random per dispatch.
	ChannelIDs []string `koanf:"channel_ids"`

	// OperatorID is the single identity allowed to grade and review.
	OperatorID string `koanf:"operator_id"`

	// OpsAddr configures the operational HTTP listen address
	// (/healthz and /metrics), e.g. ":9080".
	OpsAddr string `koanf:"ops_addr"`

	// DispatchBudget caps the number of questions posted per run.
	DispatchBudget int `koanf:"dispatch_budget"`

	// WarmupSeconds is the delay before the first question.
	WarmupSeconds int `koanf:"warmup_seconds"`

	// MinIntervalSeconds and MaxIntervalSeconds bound the random delay
	// between questions.
	MinIntervalSeconds int `koanf:"min_interval_seconds"`
	MaxIntervalSeconds int `koanf:"max_interval_seconds"`

	// MaxAnswerLength caps answer submissions, in characters.
	MaxAnswerLength int `koanf:"max_answer_length"`

	// PageSize sets the answer review page size.
	PageSize int `koanf:"page_size"`

	// SeenCacheSize bounds the gateway duplicate-event cache.
	SeenCacheSize int `koanf:"seen_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		GatewayURL:         "wss://gateway.example.com/ws",
		OpsAddr:            ":9080",
		DispatchBudget:     100,
		WarmupSeconds:      20,
		MinIntervalSeconds: 1800,
		MaxIntervalSeconds: 3600,
		MaxAnswerLength:    500,
		PageSize:           10,
		SeenCacheSize:      50_000,
	}
}
