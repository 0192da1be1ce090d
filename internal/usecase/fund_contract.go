package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// fundMeLoader binds the stored FundMe deployment on the selected network
type fundMeLoader struct {
	config      *config.RuntimeConfig
	deployments DeploymentRepository
	binder      FundMeBinder
}

func (l *fundMeLoader) load(ctx context.Context) (*config.Network, FundMeContract, error) {
	network := l.config.Network
	if network == nil {
		return nil, nil, fmt.Errorf("no network selected, use --network")
	}

	deployment, err := lookupDeployment(ctx, l.deployments, network.Name, FundMeName)
	if err != nil {
		return nil, nil, err
	}

	contract, err := l.binder.Bind(ctx, network, deployment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind %s at %s: %w", FundMeName, deployment.Address, err)
	}
	return network, contract, nil
}

// FundParams contains parameters for funding the contract
type FundParams struct {
	From   string
	Amount *big.Int
}

// FundContract sends ETH to the deployed FundMe through fund()
type FundContract struct {
	loader   *fundMeLoader
	accounts AccountResolver
	progress ProgressSink
	log      *slog.Logger
}

// NewFundContract creates a new FundContract use case
func NewFundContract(
	cfg *config.RuntimeConfig,
	deployments DeploymentRepository,
	binder FundMeBinder,
	accounts AccountResolver,
	progress ProgressSink,
	log *slog.Logger,
) *FundContract {
	return &FundContract{
		loader:   &fundMeLoader{config: cfg, deployments: deployments, binder: binder},
		accounts: accounts,
		progress: progress,
		log:      log.With("component", "fund"),
	}
}

// Run calls fund() with exactly params.Amount from params.From. Reverts come
// back as *domain.RevertError; a call below the minimum matches
// domain.ErrInsufficientFunds.
func (uc *FundContract) Run(ctx context.Context, params FundParams) (*models.FundResult, error) {
	if params.Amount == nil || params.Amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	from := params.From
	if from == "" {
		from = DeployerAccount
	}

	network, contract, err := uc.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := uc.accounts.Transactor(ctx, network, from)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSending,
		Message: fmt.Sprintf("Funding %s", contract.Address().Hex()),
		Spinner: true,
	})

	receipt, err := contract.Fund(ctx, opts, params.Amount)
	if err != nil {
		return nil, err
	}

	total, err := contract.AmountFunded(ctx, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to read funded amount: %w", err)
	}
	uc.log.Debug("funded", "funder", opts.From, "amount", params.Amount, "total", total, "tx", receipt.Hash)

	return &models.FundResult{
		Contract:     contract.Address(),
		Funder:       opts.From,
		Amount:       params.Amount,
		AmountFunded: total,
		Receipt:      receipt,
	}, nil
}
