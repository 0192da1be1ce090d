package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// maxFunders bounds the funders walk
const maxFunders = 1000

// InspectFundMe reads the state of the deployed FundMe contract
type InspectFundMe struct {
	loader   *fundMeLoader
	balances BalanceReader
}

// NewInspectFundMe creates a new InspectFundMe use case
func NewInspectFundMe(cfg *config.RuntimeConfig, deployments DeploymentRepository, binder FundMeBinder, balances BalanceReader) *InspectFundMe {
	return &InspectFundMe{
		loader:   &fundMeLoader{config: cfg, deployments: deployments, binder: binder},
		balances: balances,
	}
}

// Run executes the use case
func (uc *InspectFundMe) Run(ctx context.Context) (*models.FundMeState, error) {
	network, contract, err := uc.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	state := &models.FundMeState{
		Network: network.Name,
		Address: contract.Address(),
	}

	if state.PriceFeed, err = contract.PriceFeed(ctx); err != nil {
		return nil, fmt.Errorf("failed to read price feed: %w", err)
	}
	if state.Owner, err = contract.Owner(ctx); err != nil {
		return nil, fmt.Errorf("failed to read owner: %w", err)
	}
	if state.Balance, err = uc.balances.BalanceAt(ctx, network, contract.Address()); err != nil {
		return nil, err
	}

	// The funders array has no length getter; reading past the end reverts.
	for i := int64(0); i < maxFunders; i++ {
		funder, err := contract.Funder(ctx, i)
		if errors.Is(err, domain.ErrReverted) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read funder %d: %w", i, err)
		}
		amount, err := contract.AmountFunded(ctx, funder)
		if err != nil {
			return nil, fmt.Errorf("failed to read amount for %s: %w", funder.Hex(), err)
		}
		state.Funders = append(state.Funders, models.Funder{Address: funder, Amount: amount})
	}

	return state, nil
}
