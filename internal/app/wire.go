//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/fundme/internal/adapters"
	"github.com/trebuchet-org/fundme/internal/config"
	"github.com/trebuchet-org/fundme/internal/logging"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Deploy scripts
		usecase.NewResolvePriceFeed,
		usecase.NewDeployMocks,
		usecase.NewDeployFundMe,
		usecase.ProvideDeployScripts,
		wire.Bind(new(usecase.DeploymentVerifier), new(*usecase.VerifyDeployment)),

		// Use cases
		usecase.NewRunDeployments,
		usecase.NewVerifyDeployment,
		usecase.NewListDeployments,
		usecase.NewResetDeployments,
		usecase.NewListNetworks,
		usecase.NewFundContract,
		usecase.NewWithdrawFunds,
		usecase.NewInspectFundMe,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
