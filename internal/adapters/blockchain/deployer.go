package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DefaultPollInterval is how often the head is polled while waiting for confirmations
const DefaultPollInterval = time.Second

// Deployer sends creation transactions with go-ethereum's bind package
type Deployer struct {
	clients      *Clients
	log          *slog.Logger
	pollInterval time.Duration
}

// NewDeployer creates a new deployer
func NewDeployer(clients *Clients, log *slog.Logger) *Deployer {
	return &Deployer{
		clients:      clients,
		log:          log.With("component", "deployer"),
		pollInterval: DefaultPollInterval,
	}
}

// WithPollInterval overrides the confirmation polling interval
func (d *Deployer) WithPollInterval(interval time.Duration) *Deployer {
	d.pollInterval = interval
	return d
}

// Deploy sends the creation transaction for artifact with args, waits until
// it is mined and then for confirmations blocks in total. Errors from sending
// or mining are returned as is.
func (d *Deployer) Deploy(
	ctx context.Context,
	network *config.Network,
	opts *bind.TransactOpts,
	artifact *models.Artifact,
	args []any,
	confirmations uint64,
) (*models.Deployment, error) {
	if !artifact.IsLinked() {
		return nil, fmt.Errorf("%s has unlinked library references", artifact.ContractName)
	}

	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", artifact.ContractName, err)
	}
	bytecode, err := hexutil.Decode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", artifact.ContractName, err)
	}
	constructorArgs, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor args for %s: %w", artifact.ContractName, err)
	}

	backend, err := d.clients.Backend(ctx, network)
	if err != nil {
		return nil, err
	}

	if opts.Context == nil {
		opts.Context = ctx
	}
	address, tx, _, err := bind.DeployContract(opts, parsed, bytecode, backend, args...)
	if err != nil {
		return nil, err
	}
	d.log.Debug("deployment transaction sent", "contract", artifact.ContractName, "address", address, "tx", tx.Hash())

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: deployment of %s failed in tx %s", domain.ErrReverted, artifact.ContractName, tx.Hash().Hex())
	}

	if err := d.waitConfirmations(ctx, backend, receipt.BlockNumber.Uint64(), confirmations); err != nil {
		return nil, err
	}

	deployment := &models.Deployment{
		Address:         address.Hex(),
		TransactionHash: tx.Hash().Hex(),
		Bytecode:        artifact.Bytecode,
		ConstructorArgs: hexutil.Encode(constructorArgs),
		Receipt: &models.Receipt{
			BlockNumber: receipt.BlockNumber.Uint64(),
			BlockHash:   receipt.BlockHash.Hex(),
			GasUsed:     receipt.GasUsed,
			Status:      receipt.Status,
		},
	}
	if receipt.EffectiveGasPrice != nil {
		deployment.Receipt.EffectiveGasPrice = receipt.EffectiveGasPrice.String()
	}
	return deployment, nil
}

// waitConfirmations blocks until the head is confirmations-1 blocks past mined.
// A single confirmation is the mined block itself.
func (d *Deployer) waitConfirmations(ctx context.Context, backend Backend, mined, confirmations uint64) error {
	if confirmations <= 1 {
		return nil
	}
	target := mined + confirmations - 1

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		head, err := backend.BlockNumber(ctx)
		if err != nil {
			d.log.Debug("failed to read block number", "error", err)
		} else if head >= target {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d confirmations of block %d: %w", confirmations, mined, ctx.Err())
		case <-ticker.C:
		}
	}
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
