package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// MockAggregatorName is the contract deployed in place of a price feed on development networks
const MockAggregatorName = "MockV3Aggregator"

// ResolvePriceFeed picks the ETH/USD price feed a FundMe deployment is constructed with
type ResolvePriceFeed struct {
	project     *config.ProjectConfig
	deployments DeploymentRepository
}

// NewResolvePriceFeed creates a new ResolvePriceFeed use case
func NewResolvePriceFeed(cfg *config.RuntimeConfig, deployments DeploymentRepository) *ResolvePriceFeed {
	return &ResolvePriceFeed{
		project:     cfg.Project,
		deployments: deployments,
	}
}

// Resolve returns the most recent mock aggregator on development networks and
// the configured feed for the chain id everywhere else.
func (uc *ResolvePriceFeed) Resolve(ctx context.Context, network *config.Network) (common.Address, error) {
	if network == nil {
		return common.Address{}, fmt.Errorf("no network selected")
	}

	if uc.project.IsDevelopment(network.Name) {
		mock, err := uc.deployments.Get(ctx, network.Name, MockAggregatorName)
		if err != nil {
			return common.Address{}, fmt.Errorf("%w: %w", domain.ErrMockNotDeployed, err)
		}
		if !common.IsHexAddress(mock.Address) || common.HexToAddress(mock.Address) == (common.Address{}) {
			return common.Address{}, fmt.Errorf("%w: %s record has invalid address %q", domain.ErrMockNotDeployed, MockAggregatorName, mock.Address)
		}
		// a record left behind by a node running another chain is stale
		if mock.ChainID != 0 && network.ChainID != 0 && mock.ChainID != network.ChainID {
			return common.Address{}, fmt.Errorf("%w: %s record is for chain %d but %s is chain %d, redeploy with --tags mocks",
				domain.ErrMockNotDeployed, MockAggregatorName, mock.ChainID, network.Name, network.ChainID)
		}
		return common.HexToAddress(mock.Address), nil
	}

	feed, ok := uc.project.PriceFeedFor(network.ChainID)
	if !ok {
		return common.Address{}, domain.UnsupportedChainError{Network: network.Name, ChainID: network.ChainID}
	}
	return feed, nil
}
