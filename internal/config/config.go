package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAzureAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvAzureAPIVersion = "AZURE_OPENAI_API_VERSION"
	EnvAzureDeployment = "AZURE_OPENAI_DEPLOYMENT"
)

// Defaults
const (
	DefaultAPIVersion = "2024-06-01"
	DefaultDeployment = "gpt-4o-mini"
)

// Errors
var (
	ErrEndpointNotFound = errors.New("Azure endpoint not found. Set AZURE_OPENAI_ENDPOINT environment variable")
	ErrAPIKeyNotFound   = errors.New("Azure API key not found. Set AZURE_OPENAI_API_KEY environment variable")
)

// Config holds the application configuration. It is assembled once at
// construction time; there is no runtime reconfiguration.
type Config struct {
	// Azure OpenAI
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string

	// Flags
	Render      bool
	Verbose     bool
	Interactive bool
	Yes         bool
	LogToFile   bool
	ExecTimeout time.Duration
}

// New creates an empty Config.
func New() *Config {
	return &Config{}
}

// Validate loads missing fields from the environment, applies defaults, and
// normalizes the endpoint. Validation failures propagate to the caller; this
// is the one place configuration errors are allowed to surface.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = strings.TrimSpace(os.Getenv(EnvAzureEndpoint))
	}
	if c.Endpoint == "" {
		return ErrEndpointNotFound
	}
	c.Endpoint = NormalizeEndpoint(c.Endpoint)

	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvAzureAPIKey))
	}
	if c.APIKey == "" {
		return ErrAPIKeyNotFound
	}

	if c.APIVersion == "" {
		c.APIVersion = strings.TrimSpace(os.Getenv(EnvAzureAPIVersion))
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}

	if c.Deployment == "" {
		c.Deployment = strings.TrimSpace(os.Getenv(EnvAzureDeployment))
	}
	if c.Deployment == "" {
		c.Deployment = DefaultDeployment
	}

	return nil
}

// NormalizeEndpoint prefixes a missing scheme with https and trims any
// trailing slash. Plain http endpoints are left alone so local proxies keep
// working.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}
