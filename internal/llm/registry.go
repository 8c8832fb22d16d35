// Package llm builds the configured inference client. Provider packages
// register themselves from init; cmd/server blank-imports the ones it ships.
package llm

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"poextract/internal/config"
	"poextract/internal/domain"
	"poextract/internal/port"
)

// ProviderFactory creates an InferenceClient from the application config.
type ProviderFactory func(cfg *config.Config) (port.InferenceClient, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewClient creates the client for cfg.Inference.Provider using the registered factory.
func NewClient(cfg *config.Config) (port.InferenceClient, error) {
	mu.RLock()
	factory, ok := providers[cfg.Inference.Provider]
	mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(domain.ErrUnknownProvider, "inference provider %q", cfg.Inference.Provider)
	}
	return factory(cfg)
}
