package model

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds the runtime configuration of the contract host.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger" mapstructure:"ledger"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// LedgerConfig selects and configures the ledger backend.
type LedgerConfig struct {
	Backend    string `yaml:"backend" mapstructure:"backend"` // memory, badger
	Path       string `yaml:"path" mapstructure:"path"`
	SyncWrites bool   `yaml:"sync_writes" mapstructure:"sync_writes"`
	Namespace  string `yaml:"namespace" mapstructure:"namespace"` // appended to generated ids
}

// BatchConfig tunes the batch invoker.
type BatchConfig struct {
	Workers int     `yaml:"workers" mapstructure:"workers"`
	Rate    float64 `yaml:"rate" mapstructure:"rate"` // invocations per second per contract
	Burst   int     `yaml:"burst" mapstructure:"burst"`

	// ContractRates override Rate for individual contracts.
	ContractRates []ContractRate `yaml:"contract_rates,omitempty" mapstructure:"contract_rates"`
}

// ContractRate is a per-contract throttle. A zero Rate disables throttling
// for that contract; a zero Burst keeps the default burst.
type ContractRate struct {
	Contract string  `yaml:"contract" mapstructure:"contract"`
	Rate     float64 `yaml:"rate" mapstructure:"rate"`
	Burst    int     `yaml:"burst,omitempty" mapstructure:"burst"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `yaml:"level" mapstructure:"level"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"` // json, console
}

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	path := "informiz-ledger"
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, ".informiz", "ledger")
	}
	return Config{
		Ledger: LedgerConfig{
			Backend:    BackendBadger,
			Path:       path,
			SyncWrites: true,
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
			Rate:    50,
			Burst:   10,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Validate rejects settings the host cannot start with.
func (c Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for the %s backend", BackendBadger)
		}
	default:
		return fmt.Errorf("ledger.backend must be %s or %s, got %q", BackendMemory, BackendBadger, c.Ledger.Backend)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	if c.Batch.Rate < 0 {
		return fmt.Errorf("batch.rate must not be negative, got %g", c.Batch.Rate)
	}
	seen := make(map[string]bool, len(c.Batch.ContractRates))
	for i, cr := range c.Batch.ContractRates {
		if cr.Contract == "" {
			return fmt.Errorf("batch.contract_rates[%d]: contract is required", i)
		}
		if cr.Rate < 0 {
			return fmt.Errorf("batch.contract_rates[%d]: rate must not be negative", i)
		}
		if seen[cr.Contract] {
			return fmt.Errorf("batch.contract_rates: %s listed twice", cr.Contract)
		}
		seen[cr.Contract] = true
	}

	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	return nil
}
