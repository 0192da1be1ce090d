package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// AllNetworks lists every network instead of the selected one
	AllNetworks bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total      int
	ByNetwork  map[string]int
	Verified   int
	Unverified int
}

// ListDeployments is a use case for listing stored deployments
type ListDeployments struct {
	config      *config.RuntimeConfig
	deployments DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, deployments DeploymentRepository) *ListDeployments {
	return &ListDeployments{
		config:      cfg,
		deployments: deployments,
	}
}

// Run executes the use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	network := ""
	if !params.AllNetworks && uc.config.Network != nil {
		network = uc.config.Network.Name
	}

	deployments, err := uc.deployments.List(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].Network != deployments[j].Network {
			return deployments[i].Network < deployments[j].Network
		}
		return deployments[i].CreatedAt.Before(deployments[j].CreatedAt)
	})

	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
	}
	for _, d := range deployments {
		summary.ByNetwork[d.Network]++
		if d.IsVerified() {
			summary.Verified++
		} else {
			summary.Unverified++
		}
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     summary,
	}, nil
}
