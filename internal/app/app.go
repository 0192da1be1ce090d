package app

import (
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Confirmer usecase.Confirmer
	Selector  usecase.DeploymentSelector

	// Use cases
	RunDeployments   *usecase.RunDeployments
	VerifyDeployment *usecase.VerifyDeployment
	ListDeployments  *usecase.ListDeployments
	ResetDeployments *usecase.ResetDeployments
	ListNetworks     *usecase.ListNetworks
	ResolvePriceFeed *usecase.ResolvePriceFeed
	FundContract     *usecase.FundContract
	WithdrawFunds    *usecase.WithdrawFunds
	InspectFundMe    *usecase.InspectFundMe
	ManageNode       *usecase.ManageNode
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	confirmer usecase.Confirmer,
	selector usecase.DeploymentSelector,
	runDeployments *usecase.RunDeployments,
	verifyDeployment *usecase.VerifyDeployment,
	listDeployments *usecase.ListDeployments,
	resetDeployments *usecase.ResetDeployments,
	listNetworks *usecase.ListNetworks,
	resolvePriceFeed *usecase.ResolvePriceFeed,
	fundContract *usecase.FundContract,
	withdrawFunds *usecase.WithdrawFunds,
	inspectFundMe *usecase.InspectFundMe,
	manageNode *usecase.ManageNode,
) (*App, error) {
	return &App{
		Config:           cfg,
		Confirmer:        confirmer,
		Selector:         selector,
		RunDeployments:   runDeployments,
		VerifyDeployment: verifyDeployment,
		ListDeployments:  listDeployments,
		ResetDeployments: resetDeployments,
		ListNetworks:     listNetworks,
		ResolvePriceFeed: resolvePriceFeed,
		FundContract:     fundContract,
		WithdrawFunds:    withdrawFunds,
		InspectFundMe:    inspectFundMe,
		ManageNode:       manageNode,
	}, nil
}
