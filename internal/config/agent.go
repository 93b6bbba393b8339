package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "MOSAIC_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "MOSAIC_AGENT_BASE_URL"
	EnvAgentToken        = "MOSAIC_AGENT_TOKEN"
	EnvAgentDeployment   = "MOSAIC_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "MOSAIC_AGENT_API_VERSION"
	EnvAgentAuthType     = "MOSAIC_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "MOSAIC_AGENT_MODEL_NAME"
)

// AgentConfig is the go-agents agent configuration for the classification
// model. Finalization follows the same defaults, env, validate phases as
// the rest of the configuration.
type AgentConfig = gaconfig.AgentConfig

// FinalizeAgent applies go-agents defaults, environment variable overrides,
// and validation to an AgentConfig.
func FinalizeAgent(c *AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
	if c.Name == "" {
		c.Name = "mosaic-classifier"
	}
}

func loadAgentEnv(c *AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
