package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mosaicintel/mosaic/internal/batch"
)

const (
	EnvPipelineContextBudget     = "MOSAIC_PIPELINE_CONTEXT_BUDGET"
	EnvPipelineTargetUtilization = "MOSAIC_PIPELINE_TARGET_UTILIZATION"
	EnvPipelineMinBatchSize      = "MOSAIC_PIPELINE_MIN_BATCH_SIZE"
	EnvPipelineMaxBatchSize      = "MOSAIC_PIPELINE_MAX_BATCH_SIZE"
)

// PipelineConfig holds analysis pipeline tuning: the model context budget
// in tokens and the evidence batch sizing parameters.
type PipelineConfig struct {
	ContextBudget     int     `toml:"context_budget"`
	TargetUtilization float64 `toml:"target_utilization"`
	MinBatchSize      int     `toml:"min_batch_size"`
	MaxBatchSize      int     `toml:"max_batch_size"`
}

// BatchOptions returns the batch sizing options derived from this config.
func (c *PipelineConfig) BatchOptions() batch.Options {
	return batch.Options{
		TargetUtilization: c.TargetUtilization,
		MinBatchSize:      c.MinBatchSize,
		MaxBatchSize:      c.MaxBatchSize,
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ContextBudget != 0 {
		c.ContextBudget = overlay.ContextBudget
	}
	if overlay.TargetUtilization != 0 {
		c.TargetUtilization = overlay.TargetUtilization
	}
	if overlay.MinBatchSize != 0 {
		c.MinBatchSize = overlay.MinBatchSize
	}
	if overlay.MaxBatchSize != 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}
}

// Finalize applies defaults, environment overrides, and validates.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *PipelineConfig) loadDefaults() {
	defaults := batch.DefaultOptions()
	if c.ContextBudget == 0 {
		c.ContextBudget = 128000
	}
	if c.TargetUtilization == 0 {
		c.TargetUtilization = defaults.TargetUtilization
	}
	if c.MinBatchSize == 0 {
		c.MinBatchSize = defaults.MinBatchSize
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = defaults.MaxBatchSize
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineContextBudget); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ContextBudget = n
		}
	}
	if v := os.Getenv(EnvPipelineTargetUtilization); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.TargetUtilization = f
		}
	}
	if v := os.Getenv(EnvPipelineMinBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinBatchSize = n
		}
	}
	if v := os.Getenv(EnvPipelineMaxBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxBatchSize = n
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.ContextBudget < 0 {
		return fmt.Errorf("context_budget must not be negative: %d", c.ContextBudget)
	}
	if c.TargetUtilization <= 0 || c.TargetUtilization > 1 {
		return fmt.Errorf("target_utilization must be in (0, 1]: %v", c.TargetUtilization)
	}
	if c.MinBatchSize < 1 {
		return fmt.Errorf("min_batch_size must be at least 1: %d", c.MinBatchSize)
	}
	if c.MaxBatchSize < c.MinBatchSize {
		return fmt.Errorf("max_batch_size %d below min_batch_size %d", c.MaxBatchSize, c.MinBatchSize)
	}
	return nil
}
