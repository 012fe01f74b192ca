package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry holds named oracle instances. It supports config-driven
// instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	oracles map[string]Oracle
	def     string
	logger  *slog.Logger
}

// OracleConfig describes one oracle instance to build from configuration.
type OracleConfig struct {
	Type       string  // "openai" or "mock"
	APIKey     string
	Model      string
	RateLimit  int     // requests per minute
	MaxRetries int
	TimeoutSec int
	Enabled    bool
}

// RegistryConfig is the full provider section of the configuration.
type RegistryConfig struct {
	Default string
	Oracles map[string]OracleConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		oracles: make(map[string]Oracle),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds an oracle by name.
func (r *Registry) Register(name string, oracle Oracle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oracles[name] = oracle
	if r.def == "" {
		r.def = name
	}
	if r.logger != nil {
		r.logger.Info("registered oracle", "name", name, "provider", oracle.Name())
	}
}

// Get returns an oracle by name.
func (r *Registry) Get(name string) (Oracle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.oracles[name]
	if !ok {
		return nil, fmt.Errorf("oracle not found: %s", name)
	}
	return o, nil
}

// Default returns the default oracle.
func (r *Registry) Default() (Oracle, error) {
	r.mu.RLock()
	def := r.def
	r.mu.RUnlock()
	if def == "" {
		return nil, fmt.Errorf("no oracle configured")
	}
	return r.Get(def)
}

// Names returns the registered oracle names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.oracles))
	for name := range r.oracles {
		names = append(names, name)
	}
	return names
}

// Reload rebuilds the registry from configuration. Called at startup and on
// config hot-reload; existing oracles are replaced wholesale.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.oracles = make(map[string]Oracle, len(cfg.Oracles))
	for name, oc := range cfg.Oracles {
		if !oc.Enabled {
			continue
		}
		switch oc.Type {
		case "openai":
			r.oracles[name] = NewOpenAIOracle(OpenAIConfig{
				APIKey:     oc.APIKey,
				Model:      oc.Model,
				RateLimit:  oc.RateLimit,
				MaxRetries: oc.MaxRetries,
				Timeout:    time.Duration(oc.TimeoutSec) * time.Second,
			})
		case "mock":
			r.oracles[name] = NewMockOracle()
		default:
			if r.logger != nil {
				r.logger.Warn("unknown oracle type, skipping", "name", name, "type", oc.Type)
			}
			continue
		}
		if r.logger != nil {
			r.logger.Info("configured oracle", "name", name, "type", oc.Type)
		}
	}

	r.def = cfg.Default
	if r.def == "" {
		for name := range r.oracles {
			r.def = name
			break
		}
	}
}
