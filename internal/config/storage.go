package config

import (
	"os"
	"strconv"

	"github.com/mosaicintel/mosaic/pkg/storage"
)

const EnvStorageEnabled = "MOSAIC_STORAGE_ENABLED"

var storageEnv = &storage.Env{
	ContainerName:    "MOSAIC_STORAGE_CONTAINER_NAME",
	ConnectionString: "MOSAIC_STORAGE_CONNECTION_STRING",
	MaxListSize:      "MOSAIC_STORAGE_MAX_LIST_SIZE",
}

// StorageConfig gates the optional blob export of generated profiles.
// When Enabled is false the nested storage config is left unvalidated and
// no blob client is constructed.
type StorageConfig struct {
	Enabled bool           `toml:"enabled"`
	Blob    storage.Config `toml:"blob"`
}

// Merge overwrites non-zero fields from overlay.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	c.Blob.Merge(&overlay.Blob)
}

// Finalize applies the enabled flag override and, when enabled, finalizes
// the nested blob storage config.
func (c *StorageConfig) Finalize() error {
	if v := os.Getenv(EnvStorageEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if !c.Enabled {
		return nil
	}
	return c.Blob.Finalize(storageEnv)
}
