package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// WithdrawParams contains parameters for withdrawing from the contract
type WithdrawParams struct {
	From    string
	Cheaper bool // use cheaperWithdraw()
}

// WithdrawFunds moves the contract balance to the owner
type WithdrawFunds struct {
	loader   *fundMeLoader
	accounts AccountResolver
	balances BalanceReader
	progress ProgressSink
	log      *slog.Logger
}

// NewWithdrawFunds creates a new WithdrawFunds use case
func NewWithdrawFunds(
	cfg *config.RuntimeConfig,
	deployments DeploymentRepository,
	binder FundMeBinder,
	accounts AccountResolver,
	balances BalanceReader,
	progress ProgressSink,
	log *slog.Logger,
) *WithdrawFunds {
	return &WithdrawFunds{
		loader:   &fundMeLoader{config: cfg, deployments: deployments, binder: binder},
		accounts: accounts,
		balances: balances,
		progress: progress,
		log:      log.With("component", "withdraw"),
	}
}

// Run withdraws as params.From and reports balances before and after so the
// caller can check that the owner received the contract balance minus gas.
// A caller other than the owner gets domain.ErrNotOwner and nothing is sent.
func (uc *WithdrawFunds) Run(ctx context.Context, params WithdrawParams) (*models.WithdrawResult, error) {
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

	owner, err := contract.Owner(ctx)
	if err != nil {
		// no owner getter, the simulated call still catches non-owners
		uc.log.Debug("owner lookup failed", "error", err)
	} else if owner != opts.From {
		return nil, fmt.Errorf("%w: %s is not %s", domain.ErrNotOwner, opts.From.Hex(), owner.Hex())
	}

	startContract, err := uc.balances.BalanceAt(ctx, network, contract.Address())
	if err != nil {
		return nil, err
	}
	startOwner, err := uc.balances.BalanceAt(ctx, network, opts.From)
	if err != nil {
		return nil, err
	}

	method := "withdraw"
	if params.Cheaper {
		method = "cheaperWithdraw"
	}
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSending,
		Message: fmt.Sprintf("Calling %s on %s", method, contract.Address().Hex()),
		Spinner: true,
	})

	var receipt *models.TxReceipt
	if params.Cheaper {
		receipt, err = contract.CheaperWithdraw(ctx, opts)
	} else {
		receipt, err = contract.Withdraw(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	endContract, err := uc.balances.BalanceAt(ctx, network, contract.Address())
	if err != nil {
		return nil, err
	}
	endOwner, err := uc.balances.BalanceAt(ctx, network, opts.From)
	if err != nil {
		return nil, err
	}

	result := &models.WithdrawResult{
		Contract:                contract.Address(),
		Owner:                   opts.From,
		Cheaper:                 params.Cheaper,
		Receipt:                 receipt,
		StartingContractBalance: startContract,
		StartingOwnerBalance:    startOwner,
		EndingContractBalance:   endContract,
		EndingOwnerBalance:      endOwner,
	}
	if !result.Reconciles() {
		// other transactions may land in the same block on live networks
		uc.log.Warn("balances do not reconcile", "method", method, "tx", receipt.Hash)
	}
	return result, nil
}
