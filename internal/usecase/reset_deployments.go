package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// DeploymentResetter removes every stored record on a network
type DeploymentResetter interface {
	Reset(ctx context.Context, network string) error
}

// ResetDeploymentsParams contains parameters for resetting the deployments store
type ResetDeploymentsParams struct {
	DryRun bool // If true, only collect records without deleting them
}

// ResetDeploymentsResult contains the result of resetting the deployments store
type ResetDeploymentsResult struct {
	Network string
	Removed []*models.Deployment
}

// ResetDeployments forgets every deployment recorded on the selected network
type ResetDeployments struct {
	config      *config.RuntimeConfig
	deployments DeploymentRepository
	resetter    DeploymentResetter
}

// NewResetDeployments creates a new ResetDeployments use case
func NewResetDeployments(
	cfg *config.RuntimeConfig,
	deployments DeploymentRepository,
	resetter DeploymentResetter,
) *ResetDeployments {
	return &ResetDeployments{
		config:      cfg,
		deployments: deployments,
		resetter:    resetter,
	}
}

// Run executes the reset
func (uc *ResetDeployments) Run(ctx context.Context, params ResetDeploymentsParams) (*ResetDeploymentsResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("network is required for reset")
	}
	network := uc.config.Network.Name

	records, err := uc.deployments.List(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	result := &ResetDeploymentsResult{Network: network, Removed: records}
	if len(records) == 0 || params.DryRun {
		return result, nil
	}

	if err := uc.resetter.Reset(ctx, network); err != nil {
		return nil, fmt.Errorf("failed to reset deployments: %w", err)
	}
	return result, nil
}
