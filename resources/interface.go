package resources

import "context"

// Provider discovers importable resources for one AWS service
type Provider interface {
	// Type returns the service identifier handled by this provider
	Type() string

	// Discover retrieves import records based on the configuration
	Discover(ctx context.Context, config ProviderConfig) ([]ImportRecord, error)

	// ValidateConfig checks if the provider configuration is valid
	ValidateConfig(config ProviderConfig) error
}

// ProviderConfig represents configuration for a provider
type ProviderConfig struct {
	Region      string
	Profile     string
	Environment string
}
