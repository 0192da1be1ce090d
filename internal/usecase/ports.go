package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// DeploymentRepository persists the latest deployment record per contract and network
type DeploymentRepository interface {
	// Get returns a domain.DeploymentNotFoundError when nothing is stored
	Get(ctx context.Context, network, contractName string) (*models.Deployment, error)
	// List returns every record on a network, or on all networks when network is empty
	List(ctx context.Context, network string) ([]*models.Deployment, error)
	Save(ctx context.Context, deployment *models.Deployment) error
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	Get(ctx context.Context, contractName string) (*models.Artifact, error)
	VerificationInput(ctx context.Context, artifact *models.Artifact) (*models.VerificationInput, error)
}

// AccountResolver maps named accounts to addresses and signers
type AccountResolver interface {
	ResolveAccount(ctx context.Context, network *config.Network, name string) (common.Address, error)
	Transactor(ctx context.Context, network *config.Network, name string) (*bind.TransactOpts, error)
}

// ContractDeployer sends a creation transaction and waits for confirmations.
// The returned record carries chain data only and is not persisted.
type ContractDeployer interface {
	Deploy(ctx context.Context, network *config.Network, opts *bind.TransactOpts, artifact *models.Artifact, args []any, confirmations uint64) (*models.Deployment, error)
}

// ContractVerifier publishes contract source to a block explorer
type ContractVerifier interface {
	Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) (*models.VerificationInfo, error)
}

// DeploymentVerifier verifies a freshly deployed contract and records the outcome
type DeploymentVerifier interface {
	Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) error
}

// FundMeContract is a bound, deployed FundMe contract
type FundMeContract interface {
	Address() common.Address
	PriceFeed(ctx context.Context) (common.Address, error)
	Owner(ctx context.Context) (common.Address, error)
	AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error)
	// Funder returns the funder at index and reverts past the end of the list
	Funder(ctx context.Context, index int64) (common.Address, error)
	Fund(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*models.TxReceipt, error)
	Withdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error)
	CheaperWithdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error)
}

// FundMeBinder binds a stored deployment to a live contract
type FundMeBinder interface {
	Bind(ctx context.Context, network *config.Network, deployment *models.Deployment) (FundMeContract, error)
}

// BalanceReader reads native balances
type BalanceReader interface {
	BalanceAt(ctx context.Context, network *config.Network, address common.Address) (*big.Int, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	Names() []string
	Resolve(ctx context.Context, networkName string) (*config.Network, error)
}

// NodeManager manages local anvil node instances
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// Confirmer asks the operator to confirm an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeploymentSelector lets the operator pick one of several deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, names []string, prompt string) (string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// Stage names reported through ProgressSink
const (
	StageDeploying = "Deploying"
	StageVerifying = "Verifying"
	StageSending   = "Sending"
	StageCompleted = "Completed"
)
