package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

var (
	sepoliaFeed = common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")
	mockFeed    = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

func testRuntimeConfig(network *config.Network) *config.RuntimeConfig {
	project := config.DefaultProjectConfig()
	project.NetworkConfig["11155111"] = config.ChainEntry{Name: "sepolia", EthUsdPriceFeed: sepoliaFeed.Hex()}
	project.Networks["sepolia"] = config.NetworkEntry{URL: "https://sepolia.example", ChainID: 11155111, BlockConfirmations: 6}
	if network != nil {
		network.Development = project.IsDevelopment(network.Name)
	}
	return &config.RuntimeConfig{
		ProjectRoot: "/tmp/project",
		Network:     network,
		Project:     project,
	}
}

func localhost() *config.Network {
	return &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", Development: true}
}

func sepolia() *config.Network {
	return &config.Network{Name: "sepolia", ChainID: 11155111, RPCURL: "https://sepolia.example", BlockConfirmations: 6}
}

func TestResolvePriceFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("development network uses the latest mock deployment", func(t *testing.T) {
		for _, name := range []string{"hardhat", "localhost"} {
			network := &config.Network{Name: name, ChainID: 31337}
			repo := newMemoryDeployments(&models.Deployment{
				ContractName:   usecase.MockAggregatorName,
				Network:        name,
				Address:        mockFeed.Hex(),
				NumDeployments: 3,
			})

			uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), repo)
			feed, err := uc.Resolve(ctx, network)
			require.NoError(t, err)
			assert.Equal(t, mockFeed, feed, name)
		}
	})

	t.Run("development network without mock fails", func(t *testing.T) {
		network := localhost()
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), newMemoryDeployments())

		_, err := uc.Resolve(ctx, network)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("development network ignores the static map", func(t *testing.T) {
		// a dev network sharing a configured chain id still needs the mock
		network := &config.Network{Name: "localhost", ChainID: 11155111}
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), newMemoryDeployments())

		_, err := uc.Resolve(ctx, network)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
	})

	t.Run("mock record with zero address fails", func(t *testing.T) {
		network := localhost()
		repo := newMemoryDeployments(&models.Deployment{
			ContractName: usecase.MockAggregatorName,
			Network:      "localhost",
			Address:      common.Address{}.Hex(),
		})
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), repo)

		_, err := uc.Resolve(ctx, network)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
	})

	t.Run("mock record from another chain fails", func(t *testing.T) {
		network := localhost()
		repo := newMemoryDeployments(&models.Deployment{
			ContractName: usecase.MockAggregatorName,
			Network:      "localhost",
			ChainID:      1337,
			Address:      mockFeed.Hex(),
		})
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), repo)

		_, err := uc.Resolve(ctx, network)
		assert.ErrorIs(t, err, domain.ErrMockNotDeployed)
		assert.ErrorContains(t, err, "chain 1337")

		repo = newMemoryDeployments(&models.Deployment{
			ContractName: usecase.MockAggregatorName,
			Network:      "localhost",
			ChainID:      31337,
			Address:      mockFeed.Hex(),
		})
		feed, err := usecase.NewResolvePriceFeed(testRuntimeConfig(network), repo).Resolve(ctx, network)
		require.NoError(t, err)
		assert.Equal(t, mockFeed, feed)
	})

	t.Run("live network uses the configured feed", func(t *testing.T) {
		network := sepolia()
		// a stray mock record on the live network must not be used
		repo := newMemoryDeployments(&models.Deployment{
			ContractName: usecase.MockAggregatorName,
			Network:      "sepolia",
			Address:      mockFeed.Hex(),
		})
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), repo)

		feed, err := uc.Resolve(ctx, network)
		require.NoError(t, err)
		assert.Equal(t, sepoliaFeed, feed)
	})

	t.Run("live network without configured chain fails", func(t *testing.T) {
		network := &config.Network{Name: "mainnet", ChainID: 1}
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(network), newMemoryDeployments())

		_, err := uc.Resolve(ctx, network)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedNetwork)

		var unsupported domain.UnsupportedChainError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, uint64(1), unsupported.ChainID)
		assert.Equal(t, "mainnet", unsupported.Network)
	})

	t.Run("no network", func(t *testing.T) {
		uc := usecase.NewResolvePriceFeed(testRuntimeConfig(nil), newMemoryDeployments())
		_, err := uc.Resolve(ctx, nil)
		assert.Error(t, err)
	})
}
