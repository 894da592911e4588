package procos

import (
	"fmt"
	"time"

	"github.com/viant/procos/service/scheduler"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the runtime configuration. It
// can be populated from YAML or JSON; the zero value inherits package
// defaults for every nested field.
type Config struct {
	Scheduler  SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	JournalURL string          `json:"journalURL,omitempty" yaml:"journalURL,omitempty"`
}

// SchedulerConfig is the declarative subset of scheduler configuration.
type SchedulerConfig struct {
	Policy    scheduler.Policy `json:"policy,omitempty" yaml:"policy,omitempty"`
	QuantumMs int              `json:"quantumMs,omitempty" yaml:"quantumMs,omitempty"`
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	defaults := scheduler.DefaultConfig()
	return &Config{
		Scheduler: SchedulerConfig{
			Policy:    defaults.Policy,
			QuantumMs: int(defaults.Quantum / time.Millisecond),
		},
	}
}

// ParseConfig decodes a YAML document into a Config, applying defaults for
// absent fields.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Scheduler.Policy {
	case "", scheduler.PolicyRoundRobin, scheduler.PolicyPriority, scheduler.PolicyFair:
	default:
		return fmt.Errorf("unknown scheduler policy: %v", c.Scheduler.Policy)
	}
	if c.Scheduler.QuantumMs < 0 {
		return fmt.Errorf("scheduler.quantumMs must not be negative")
	}
	return nil
}

// schedulerConfig converts the declarative subset into the runtime form.
func (c *Config) schedulerConfig() scheduler.Config {
	out := scheduler.Config{Policy: c.Scheduler.Policy}
	if c.Scheduler.QuantumMs > 0 {
		out.Quantum = time.Duration(c.Scheduler.QuantumMs) * time.Millisecond
	}
	return out
}
