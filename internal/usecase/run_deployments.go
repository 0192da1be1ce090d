package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// RunDeploymentsParams contains parameters for running deploy scripts
type RunDeploymentsParams struct {
	Tags []string
	// Yes skips the confirmation prompt on live networks
	Yes bool
}

// ScriptRun describes what happened to one deploy script
type ScriptRun struct {
	Name    string
	Tags    []string
	Skipped bool
}

// RunDeploymentsResult contains the result of a deploy run
type RunDeploymentsResult struct {
	Network     *config.Network
	Scripts     []ScriptRun
	Deployments []*models.Deployment
}

// RunDeployments runs the tagged deploy scripts in order against the selected network
type RunDeployments struct {
	config      *config.RuntimeConfig
	scripts     []DeployScript
	accounts    AccountResolver
	artifacts   ArtifactRepository
	deployer    ContractDeployer
	deployments DeploymentRepository
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
}

// NewRunDeployments creates a new RunDeployments use case
func NewRunDeployments(
	cfg *config.RuntimeConfig,
	scripts []DeployScript,
	accounts AccountResolver,
	artifacts ArtifactRepository,
	deployer ContractDeployer,
	deployments DeploymentRepository,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployments {
	return &RunDeployments{
		config:      cfg,
		scripts:     scripts,
		accounts:    accounts,
		artifacts:   artifacts,
		deployer:    deployer,
		deployments: deployments,
		confirmer:   confirmer,
		progress:    progress,
		log:         log.With("component", "deploy"),
	}
}

// Run executes every script carrying one of the requested tags. The first
// failing script stops the run and its error is returned unchanged.
func (uc *RunDeployments) Run(ctx context.Context, params RunDeploymentsParams) (*RunDeploymentsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected, use --network")
	}

	tags := params.Tags
	if len(tags) == 0 {
		tags = []string{TagAll}
	}

	if !network.Development && !params.Yes && !uc.config.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d)?", network.Name, network.ChainID))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	env := &deployEnvironment{
		network:     network,
		accounts:    uc.accounts,
		artifacts:   uc.artifacts,
		deployer:    uc.deployer,
		deployments: uc.deployments,
		progress:    uc.progress,
		log:         uc.log,
	}

	result := &RunDeploymentsResult{Network: network}
	for _, script := range uc.scripts {
		run := ScriptRun{Name: script.Name(), Tags: script.Tags()}
		if !MatchesTags(script, tags) {
			run.Skipped = true
			result.Scripts = append(result.Scripts, run)
			continue
		}

		uc.log.Debug("running deploy script", "script", script.Name(), "network", network.Name)
		if err := script.Run(ctx, env); err != nil {
			uc.progress.Error(fmt.Sprintf("%s failed", script.Name()))
			return nil, err
		}
		result.Scripts = append(result.Scripts, run)
	}

	result.Deployments = env.deployed
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}
