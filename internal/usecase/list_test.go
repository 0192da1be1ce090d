package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

func TestListDeployments(t *testing.T) {
	now := time.Now()
	repo := newMemoryDeployments(
		&models.Deployment{ContractName: usecase.FundMeName, Network: "localhost", CreatedAt: now},
		&models.Deployment{ContractName: usecase.MockAggregatorName, Network: "localhost", CreatedAt: now.Add(-time.Minute)},
		&models.Deployment{
			ContractName: usecase.FundMeName,
			Network:      "sepolia",
			CreatedAt:    now,
			Verification: models.VerificationInfo{Status: models.VerificationStatusVerified},
		},
	)

	t.Run("selected network only", func(t *testing.T) {
		uc := usecase.NewListDeployments(testRuntimeConfig(localhost()), repo)
		result, err := uc.Run(context.Background(), usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 2)
		assert.Equal(t, usecase.MockAggregatorName, result.Deployments[0].ContractName)
		assert.Equal(t, usecase.FundMeName, result.Deployments[1].ContractName)
		assert.Equal(t, 2, result.Summary.Total)
		assert.Equal(t, 0, result.Summary.Verified)
	})

	t.Run("all networks", func(t *testing.T) {
		uc := usecase.NewListDeployments(testRuntimeConfig(localhost()), repo)
		result, err := uc.Run(context.Background(), usecase.ListDeploymentsParams{AllNetworks: true})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 3)
		assert.Equal(t, "sepolia", result.Deployments[2].Network)
		assert.Equal(t, map[string]int{"localhost": 2, "sepolia": 1}, result.Summary.ByNetwork)
		assert.Equal(t, 1, result.Summary.Verified)
		assert.Equal(t, 2, result.Summary.Unverified)
	})
}

func TestListNetworks(t *testing.T) {
	cfg := testRuntimeConfig(sepolia())
	resolver := new(MockNetworkResolver)
	resolver.On("Names").Return([]string{"localhost", "mainnet", "sepolia"})
	resolver.On("Resolve", mock.Anything, "localhost").Return(&config.Network{Name: "localhost", ChainID: 31337}, nil)
	resolver.On("Resolve", mock.Anything, "mainnet").Return(nil, errors.New("dial tcp: connection refused"))
	resolver.On("Resolve", mock.Anything, "sepolia").Return(sepolia(), nil)

	uc := usecase.NewListNetworks(cfg, resolver)
	result, err := uc.Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)

	assert.Equal(t, "sepolia", result.Current)
	require.Len(t, result.Networks, 3)

	local := result.Networks[0]
	assert.True(t, local.Development)
	assert.Equal(t, uint64(31337), local.ChainID)
	assert.Nil(t, local.PriceFeed)
	assert.Equal(t, uint64(1), local.Confirmations)

	assert.Error(t, result.Networks[1].Error)

	live := result.Networks[2]
	assert.False(t, live.Development)
	require.NotNil(t, live.PriceFeed)
	assert.Equal(t, sepoliaFeed, *live.PriceFeed)
	assert.Equal(t, uint64(6), live.Confirmations)
}

func TestResetDeployments(t *testing.T) {
	newRepo := func() *memoryDeployments {
		return newMemoryDeployments(
			&models.Deployment{ContractName: usecase.FundMeName, Network: "localhost"},
			&models.Deployment{ContractName: usecase.MockAggregatorName, Network: "localhost"},
			&models.Deployment{ContractName: usecase.FundMeName, Network: "sepolia"},
		)
	}

	t.Run("dry run keeps records", func(t *testing.T) {
		repo := newRepo()
		uc := usecase.NewResetDeployments(testRuntimeConfig(localhost()), repo, repo)
		result, err := uc.Run(context.Background(), usecase.ResetDeploymentsParams{DryRun: true})
		require.NoError(t, err)

		assert.Len(t, result.Removed, 2)
		remaining, err := repo.List(context.Background(), "localhost")
		require.NoError(t, err)
		assert.Len(t, remaining, 2)
	})

	t.Run("removes selected network only", func(t *testing.T) {
		repo := newRepo()
		uc := usecase.NewResetDeployments(testRuntimeConfig(localhost()), repo, repo)
		result, err := uc.Run(context.Background(), usecase.ResetDeploymentsParams{})
		require.NoError(t, err)

		assert.Equal(t, "localhost", result.Network)
		assert.Len(t, result.Removed, 2)
		all, err := repo.List(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "sepolia", all[0].Network)
	})

	t.Run("requires a network", func(t *testing.T) {
		repo := newRepo()
		uc := usecase.NewResetDeployments(testRuntimeConfig(nil), repo, repo)
		_, err := uc.Run(context.Background(), usecase.ResetDeploymentsParams{})
		assert.Error(t, err)
	})
}
