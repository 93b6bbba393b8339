package config

import (
	"fmt"
	"os"

	"github.com/mosaicintel/mosaic/pkg/formatting"
	"github.com/mosaicintel/mosaic/pkg/middleware"
	"github.com/mosaicintel/mosaic/pkg/openapi"
	"github.com/mosaicintel/mosaic/pkg/pagination"
)

var openapiEnv = &openapi.ConfigEnv{
	Title:       "MOSAIC_OPENAPI_TITLE",
	Description: "MOSAIC_OPENAPI_DESCRIPTION",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MOSAIC_CORS_ENABLED",
	Origins:          "MOSAIC_CORS_ORIGINS",
	AllowedMethods:   "MOSAIC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MOSAIC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MOSAIC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MOSAIC_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MOSAIC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MOSAIC_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request size, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes parses MaxRequestSize into a byte count, falling back
// to 10MB when the value is malformed.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MOSAIC_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MOSAIC_API_MAX_REQUEST_SIZE"); v != "" {
		c.MaxRequestSize = v
	}
}
