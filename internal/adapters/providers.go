package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/fundme/internal/adapters/anvil"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/fundme/internal/adapters/config"
	"github.com/trebuchet-org/fundme/internal/adapters/fundme"
	"github.com/trebuchet-org/fundme/internal/adapters/interactive"
	"github.com/trebuchet-org/fundme/internal/adapters/progress"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/fundme/internal/adapters/senders"
	"github.com/trebuchet-org/fundme/internal/adapters/verification"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// RepositorySet provides the on-disk deployment records and compiled artifacts
var RepositorySet = wire.NewSet(
	deployments.ProvideFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),
	wire.Bind(new(usecase.DeploymentResetter), new(*deployments.FileRepository)),

	contracts.ProvideRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),
)

// BlockchainSet provides RPC clients and the contract deployer
var BlockchainSet = wire.NewSet(
	blockchain.NewClients,
	wire.Bind(new(usecase.BalanceReader), new(*blockchain.Clients)),

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	fundme.NewBinder,
	wire.Bind(new(usecase.FundMeBinder), new(*fundme.Binder)),
)

// AccountsSet provides named account resolution and signing
var AccountsSet = wire.NewSet(
	senders.NewService,
	wire.Bind(new(usecase.AccountResolver), new(*senders.Service)),
)

// VerificationSet provides the explorer verifier
var VerificationSet = wire.NewSet(
	verification.NewVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.Verifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.Prompter)),
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.Prompter)),

	progress.ProvideProgressSink,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// NodeSet provides the local anvil node manager
var NodeSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	BlockchainSet,
	AccountsSet,
	VerificationSet,
	InteractiveSet,
	ConfigSet,
	NodeSet,
)
