package config

import (
	"context"

	"github.com/trebuchet-org/fundme/internal/config"
	domainconfig "github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a resolver over the project's [networks]
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: config.NewNetworkResolver(cfg.DataDir, cfg.Project),
	}
}

// Names returns all configured network names
func (a *NetworkResolverAdapter) Names() []string {
	return a.resolver.Names()
}

// Resolve resolves a network name to its configuration
func (a *NetworkResolverAdapter) Resolve(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(ctx, networkName)
}

var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
