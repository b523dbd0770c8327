package route

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Thresholds groups the tunable cutoffs used by the Phase 1 capability
// filter.
type Thresholds struct {
	// LowEntanglement is the entanglement-estimate cutoff below which a
	// low-entanglement-specialized engine is preferred outright.
	LowEntanglement float64 `yaml:"low_entanglement"`
}

// ResourceConfig groups the memory ceilings and representation limits used
// by the feasibility checker. Zero values defer to the hardware profile.
type ResourceConfig struct {
	// MemoryCeilingBytes is the soft per-candidate ceiling. 0 means 80% of
	// profile memory.
	MemoryCeilingBytes uint64 `yaml:"memory_ceiling_bytes"`
	// HardMemoryBytes is the absolute ceiling past which even the degraded
	// re-admission path refuses. 0 means profile memory.
	HardMemoryBytes uint64 `yaml:"hard_memory_bytes"`
	// BondDimensionCap bounds the bond dimension assumed for compressed
	// representations.
	BondDimensionCap int `yaml:"bond_dimension_cap"`
}

// Config is the router configuration. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	Strategy          string         `yaml:"strategy"`
	Thresholds        Thresholds     `yaml:"thresholds"`
	Resources         ResourceConfig `yaml:"resources"`
	AnalysisCacheSize int            `yaml:"analysis_cache_size"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Strategy: StrategyDefault,
		Thresholds: Thresholds{
			LowEntanglement: 8.0,
		},
		Resources: ResourceConfig{
			BondDimensionCap: 1024,
		},
		AnalysisCacheSize: 256,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if !IsValidStrategy(c.Strategy) {
		return fmt.Errorf("unknown strategy %q; valid: %v", c.Strategy, ValidStrategyNames())
	}
	if c.Thresholds.LowEntanglement < 0 {
		return fmt.Errorf("low_entanglement threshold must be >= 0, got %v", c.Thresholds.LowEntanglement)
	}
	if c.Resources.BondDimensionCap < 1 {
		return fmt.Errorf("bond_dimension_cap must be >= 1, got %d", c.Resources.BondDimensionCap)
	}
	if c.Resources.MemoryCeilingBytes > 0 && c.Resources.HardMemoryBytes > 0 &&
		c.Resources.MemoryCeilingBytes > c.Resources.HardMemoryBytes {
		return fmt.Errorf("memory_ceiling_bytes (%d) exceeds hard_memory_bytes (%d)",
			c.Resources.MemoryCeilingBytes, c.Resources.HardMemoryBytes)
	}
	if c.AnalysisCacheSize < 0 {
		return fmt.Errorf("analysis_cache_size must be >= 0, got %d", c.AnalysisCacheSize)
	}
	return nil
}

// LoadConfig reads a yaml config file on top of the defaults. The
// QROUTE_MEMORY_CEILING environment variable, when set, overrides the soft
// ceiling last.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if v := os.Getenv("QROUTE_MEMORY_CEILING"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid QROUTE_MEMORY_CEILING=%q: %w", v, err)
		}
		cfg.Resources.MemoryCeilingBytes = parsed
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ceilings resolves the configured ceilings against the hardware profile.
func (rc ResourceConfig) ceilings(hw HardwareProfile) (soft, hard uint64) {
	soft, hard = rc.MemoryCeilingBytes, rc.HardMemoryBytes
	if hard == 0 {
		hard = hw.MemoryBytes
	}
	if soft == 0 {
		soft = hw.MemoryBytes - hw.MemoryBytes/5
	}
	if soft > hard {
		soft = hard
	}
	return soft, hard
}
