package config

// Config holds informe configuration.
// Stored at: ~/.informe/config.yaml
type Config struct {
	Oracles  map[string]OracleCfg `mapstructure:"oracles" yaml:"oracles"`
	Defaults DefaultsCfg          `mapstructure:"defaults" yaml:"defaults"`
	Server   ServerCfg            `mapstructure:"server" yaml:"server"`
}

// OracleCfg configures a text-generation oracle.
type OracleCfg struct {
	Type       string `mapstructure:"type" yaml:"type"`                     // "openai", "mock"
	Model      string `mapstructure:"model" yaml:"model"`                   // Model name
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`               // API key (supports ${ENV_VAR} syntax)
	RateLimit  int    `mapstructure:"rate_limit" yaml:"rate_limit"`         // Requests per minute
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`       // Transient-failure retries
	TimeoutSec int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Per-call timeout
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections for pipeline runs.
type DefaultsCfg struct {
	Oracle      string `mapstructure:"oracle" yaml:"oracle"`           // Default oracle name
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"` // Per-section fan-out limit
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Oracles: map[string]OracleCfg{
			"openai": {
				Type:       "openai",
				Model:      "gpt-4o-mini",
				APIKey:     "${OPENAI_API_KEY}",
				RateLimit:  150,
				MaxRetries: 3,
				TimeoutSec: 60,
				Enabled:    true,
			},
		},
		Defaults: DefaultsCfg{
			Oracle:      "openai",
			Concurrency: 4,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetOracle returns an oracle config by name.
func (c *Config) GetOracle(name string) (OracleCfg, bool) {
	cfg, ok := c.Oracles[name]
	return cfg, ok
}
