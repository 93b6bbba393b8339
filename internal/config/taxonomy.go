package config

import (
	"fmt"
	"os"
)

const (
	EnvTaxonomySourcePath        = "MOSAIC_TAXONOMY_SOURCE_PATH"
	EnvTaxonomyPurchaseCodesPath = "MOSAIC_TAXONOMY_PURCHASE_CODES_PATH"
)

// TaxonomyConfig locates the taxonomy source files loaded at startup.
type TaxonomyConfig struct {
	SourcePath        string `toml:"source_path"`
	PurchaseCodesPath string `toml:"purchase_codes_path"`
}

// Merge overwrites non-zero fields from overlay.
func (c *TaxonomyConfig) Merge(overlay *TaxonomyConfig) {
	if overlay.SourcePath != "" {
		c.SourcePath = overlay.SourcePath
	}
	if overlay.PurchaseCodesPath != "" {
		c.PurchaseCodesPath = overlay.PurchaseCodesPath
	}
}

// Finalize applies defaults, environment overrides, and validates.
func (c *TaxonomyConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *TaxonomyConfig) loadDefaults() {
	if c.SourcePath == "" {
		c.SourcePath = "data/taxonomy.csv"
	}
	if c.PurchaseCodesPath == "" {
		c.PurchaseCodesPath = "data/purchase_codes.csv"
	}
}

func (c *TaxonomyConfig) loadEnv() {
	if v := os.Getenv(EnvTaxonomySourcePath); v != "" {
		c.SourcePath = v
	}
	if v := os.Getenv(EnvTaxonomyPurchaseCodesPath); v != "" {
		c.PurchaseCodesPath = v
	}
}

func (c *TaxonomyConfig) validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("source_path required")
	}
	return nil
}
