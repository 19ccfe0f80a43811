package resources

import "sync"

var (
	registry = make(map[string]Provider)
	mu       sync.RWMutex
)

// Register registers a provider for a specific service identifier
func Register(provider Provider) {
	mu.Lock()
	defer mu.Unlock()
	registry[provider.Type()] = provider
}

// Lookup retrieves a provider for a specific service identifier.
// An unknown identifier is not an error: the tool treats unsupported
// services as having nothing to import.
func Lookup(service string) (Provider, bool) {
	mu.RLock()
	defer mu.RUnlock()
	provider, ok := registry[service]
	return provider, ok
}

// List returns all registered service identifiers
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	services := make([]string, 0, len(registry))
	for s := range registry {
		services = append(services, s)
	}
	return services
}
