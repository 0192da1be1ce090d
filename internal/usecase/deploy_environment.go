package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// DeployEnvironment is handed to every deploy script. It exposes account
// resolution and the deploy operation for one network.
type DeployEnvironment interface {
	Network() *config.Network
	ResolveAccount(ctx context.Context, name string) (common.Address, error)
	Deploy(ctx context.Context, req models.DeployRequest) (*models.Deployment, error)
	Log(format string, args ...any)
}

// deployEnvironment records every deployment it performs through the repository
type deployEnvironment struct {
	network     *config.Network
	accounts    AccountResolver
	artifacts   ArtifactRepository
	deployer    ContractDeployer
	deployments DeploymentRepository
	progress    ProgressSink
	log         *slog.Logger

	deployed []*models.Deployment
}

func (e *deployEnvironment) Network() *config.Network {
	return e.network
}

func (e *deployEnvironment) ResolveAccount(ctx context.Context, name string) (common.Address, error) {
	return e.accounts.ResolveAccount(ctx, e.network, name)
}

func (e *deployEnvironment) Log(format string, args ...any) {
	e.progress.Info(fmt.Sprintf(format, args...))
}

// Deploy loads the artifact, sends the creation transaction from req.From,
// waits for req.WaitConfirmations and saves the record. Errors from the
// deployer are returned as is.
func (e *deployEnvironment) Deploy(ctx context.Context, req models.DeployRequest) (*models.Deployment, error) {
	artifact, err := e.artifacts.Get(ctx, req.ContractName)
	if err != nil {
		return nil, err
	}

	opts, err := e.accounts.Transactor(ctx, e.network, req.From)
	if err != nil {
		return nil, err
	}

	confirmations := req.WaitConfirmations
	if confirmations == 0 {
		confirmations = 1
	}

	e.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeploying,
		Message: fmt.Sprintf("Deploying %s", req.ContractName),
		Spinner: true,
	})

	deployment, err := e.deployer.Deploy(ctx, e.network, opts, artifact, req.Args, confirmations)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deployment.ContractName = req.ContractName
	deployment.Network = e.network.Name
	deployment.ChainID = e.network.ChainID
	deployment.Deployer = opts.From.Hex()
	deployment.Confirmations = confirmations
	deployment.Args = formatArgs(req.Args)
	deployment.ABI = artifact.ABI
	deployment.Artifact = models.ArtifactInfo{
		Path:            artifact.Identifier(),
		CompilerVersion: artifact.CompilerVersion,
	}
	deployment.Verification = models.VerificationInfo{Status: models.VerificationStatusUnverified}
	deployment.NumDeployments = 1
	deployment.CreatedAt = now
	deployment.UpdatedAt = now

	if previous, err := e.deployments.Get(ctx, e.network.Name, req.ContractName); err == nil {
		deployment.NumDeployments = previous.NumDeployments + 1
	}

	if err := e.deployments.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to save %s deployment: %w", req.ContractName, err)
	}

	if req.Log {
		gas := uint64(0)
		if deployment.Receipt != nil {
			gas = deployment.Receipt.GasUsed
		}
		e.Log("deployed %s at %s (tx %s, %d gas)", req.ContractName, deployment.Address, deployment.TransactionHash, gas)
	}
	e.log.Debug("deployment saved", "contract", req.ContractName, "address", deployment.Address, "network", e.network.Name)

	e.deployed = append(e.deployed, deployment)
	return deployment, nil
}

func formatArgs(args []any) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case common.Address:
			out = append(out, v.Hex())
		case fmt.Stringer:
			out = append(out, v.String())
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// lookupDeployment returns a stored record or a typed not-found error
func lookupDeployment(ctx context.Context, repo DeploymentRepository, network, contract string) (*models.Deployment, error) {
	deployment, err := repo.Get(ctx, network, contract)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		return nil, domain.DeploymentNotFoundError{Contract: contract, Network: network}
	}
	return deployment, nil
}
