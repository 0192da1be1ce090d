package fundme

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Getter names differ between versions of the contract; the first one
// present in the ABI is used.
var (
	priceFeedGetters    = []string{"getPriceFeed", "s_priceFeed", "priceFeed"}
	ownerGetters        = []string{"getOwner", "i_owner", "owner"}
	amountFundedGetters = []string{"getAddressToAmountFunded", "s_addressToAmountFunded", "addressToAmountFunded"}
	funderGetters       = []string{"getFunder", "s_funders", "funders"}
)

// Contract is a FundMe deployment bound through go-ethereum
type Contract struct {
	address  common.Address
	abi      abi.ABI
	backend  blockchain.Backend
	contract *bind.BoundContract
	log      *slog.Logger
}

// NewContract binds address with contractABI on backend
func NewContract(address common.Address, contractABI abi.ABI, backend blockchain.Backend, log *slog.Logger) *Contract {
	return &Contract{
		address:  address,
		abi:      contractABI,
		backend:  backend,
		contract: bind.NewBoundContract(address, contractABI, backend, backend, backend),
		log:      log,
	}
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) PriceFeed(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, c, priceFeedGetters)
}

func (c *Contract) Owner(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, c, ownerGetters)
}

func (c *Contract) AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	out, err := c.call(ctx, amountFundedGetters, funder)
	if err != nil {
		return nil, err
	}
	amount, ok := out.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected amount type %T", out)
	}
	return amount, nil
}

func (c *Contract) Funder(ctx context.Context, index int64) (common.Address, error) {
	return callAddress(ctx, c, funderGetters, big.NewInt(index))
}

// Fund calls fund() with amount attached
func (c *Contract) Fund(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*models.TxReceipt, error) {
	return c.send(ctx, opts, "fund", amount)
}

func (c *Contract) Withdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error) {
	return c.send(ctx, opts, "withdraw", nil)
}

func (c *Contract) CheaperWithdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error) {
	return c.send(ctx, opts, "cheaperWithdraw", nil)
}

func (c *Contract) method(candidates []string) (string, error) {
	for _, name := range candidates {
		if _, ok := c.abi.Methods[name]; ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("FundMe ABI has none of %s", strings.Join(candidates, ", "))
}

func (c *Contract) call(ctx context.Context, candidates []string, args ...any) (any, error) {
	method, err := c.method(candidates)
	if err != nil {
		return nil, err
	}

	var out []any
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, decodeRevert(&c.abi, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return out[0], nil
}

func callAddress(ctx context.Context, c *Contract, candidates []string, args ...any) (common.Address, error) {
	out, err := c.call(ctx, candidates, args...)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected address type %T", out)
	}
	return addr, nil
}

// send simulates method as opts.From first so a revert is decoded without a
// transaction reaching the chain, then sends it and waits for the receipt.
func (c *Contract) send(ctx context.Context, opts *bind.TransactOpts, method string, value *big.Int) (*models.TxReceipt, error) {
	if _, ok := c.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("FundMe ABI has no %s()", method)
	}
	input, err := c.abi.Pack(method)
	if err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{From: opts.From, To: &c.address, Value: value, Data: input}
	if _, err := c.backend.CallContract(ctx, msg, nil); err != nil {
		return nil, decodeRevert(&c.abi, err)
	}

	txOpts := *opts
	txOpts.Context = ctx
	txOpts.Value = value
	tx, err := c.contract.Transact(&txOpts, method)
	if err != nil {
		return nil, decodeRevert(&c.abi, err)
	}
	c.log.Debug("transaction sent", "method", method, "tx", tx.Hash(), "from", opts.From)

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s transaction %s failed", domain.ErrReverted, method, tx.Hash().Hex())
	}

	result := &models.TxReceipt{
		Hash:              tx.Hash(),
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
		Status:            receipt.Status,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

// Binder binds stored FundMe deployments
type Binder struct {
	clients   *blockchain.Clients
	artifacts usecase.ArtifactRepository
	log       *slog.Logger
}

// NewBinder creates a new binder
func NewBinder(clients *blockchain.Clients, artifacts usecase.ArtifactRepository, log *slog.Logger) *Binder {
	return &Binder{
		clients:   clients,
		artifacts: artifacts,
		log:       log.With("component", "fundme"),
	}
}

// Bind uses the ABI stored with the deployment, falling back to the artifact
func (b *Binder) Bind(ctx context.Context, network *config.Network, deployment *models.Deployment) (usecase.FundMeContract, error) {
	if !common.IsHexAddress(deployment.Address) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, deployment.Address)
	}

	rawABI := deployment.ABI
	if len(rawABI) == 0 || string(rawABI) == "null" {
		artifact, err := b.artifacts.Get(ctx, deployment.ContractName)
		if err != nil {
			return nil, err
		}
		rawABI = artifact.ABI
	}
	contractABI, err := abi.JSON(strings.NewReader(string(rawABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse FundMe ABI: %w", err)
	}

	exists, reason, err := b.clients.CheckDeploymentExists(ctx, network, deployment.Address)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s on %s: %s, redeploy with `fundme deploy`", deployment.Address, network.Name, reason)
	}

	backend, err := b.clients.Backend(ctx, network)
	if err != nil {
		return nil, err
	}
	return NewContract(common.HexToAddress(deployment.Address), contractABI, backend, b.log), nil
}

var (
	_ usecase.FundMeContract = (*Contract)(nil)
	_ usecase.FundMeBinder   = (*Binder)(nil)
)
