package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

const projectTOML = `
development_chains = ["hardhat", "localhost"]

[networks.localhost]
url = "http://127.0.0.1:8545"
chain_id = 31337

[networks.sepolia]
url = "${FUNDME_TEST_SEPOLIA_URL}"
block_confirmations = 6
accounts = ["${FUNDME_TEST_PRIVATE_KEY}", "${FUNDME_TEST_UNSET_KEY}"]

[named_accounts]
deployer = 0

[network_config.11155111]
name = "sepolia"
eth_usd_price_feed = "0x694AA1769357215DE4FAC081bf1f309aDC325306"

[verify]
api_key = "${FUNDME_TEST_ETHERSCAN_KEY}"
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0644))
	return dir
}

func TestLoadProjectConfig(t *testing.T) {
	t.Setenv("FUNDME_TEST_PRIVATE_KEY", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	t.Setenv("FUNDME_TEST_ETHERSCAN_KEY", "ABC123")

	dir := writeProject(t, projectTOML)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("FUNDME_TEST_SEPOLIA_URL=https://sepolia.example\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FUNDME_TEST_SEPOLIA_URL") })

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	sepolia := cfg.Networks["sepolia"]
	assert.Equal(t, "https://sepolia.example", sepolia.URL)
	assert.Equal(t, []string{"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"}, sepolia.Accounts)
	assert.Equal(t, "ABC123", cfg.Verify.APIKey)
	assert.Equal(t, config.ArtifactFormatFoundry, cfg.Artifacts.Format)
	assert.Equal(t, config.DefaultMockInitialAnswer, cfg.Mocks.InitialAnswer)
}

func TestLoadProjectConfig_APIKeyFallsBackToEnvironment(t *testing.T) {
	t.Setenv(EtherscanAPIKeyEnv, "FROM_ENV")

	cfg, err := LoadProjectConfig(writeProject(t, "development_chains = [\"localhost\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, "FROM_ENV", cfg.Verify.APIKey)
	assert.True(t, cfg.VerificationEnabled())
}

func TestLoadProjectConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EtherscanAPIKeyEnv, "")

	cfg, err := LoadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment("localhost"))
	assert.Contains(t, cfg.Networks, "localhost")
	assert.False(t, cfg.VerificationEnabled())
}

func TestLoadProjectConfig_RejectsUnknownFormats(t *testing.T) {
	_, err := LoadProjectConfig(writeProject(t, "[artifacts]\nformat = \"truffle\"\n"))
	assert.ErrorContains(t, err, "unknown artifacts format")

	_, err = LoadProjectConfig(writeProject(t, "[verify]\nverifier = \"sourcify\"\n"))
	assert.ErrorContains(t, err, "unknown verifier")
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, "")
	nested := filepath.Join(root, "contracts", "mocks")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Chdir(nested)

	found, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSetupViper(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v := SetupViper(t.TempDir(), nil)
		assert.Equal(t, "localhost", v.GetString("network"))
		assert.Equal(t, 5*time.Minute, v.GetDuration("timeout"))
		assert.False(t, v.GetBool("debug"))
	})

	t.Run("changed flags override defaults", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("network", "", "")
		flags.Bool("non-interactive", false, "")
		flags.Bool("debug", false, "")
		require.NoError(t, flags.Parse([]string{"--network", "sepolia", "--non-interactive"}))

		v := SetupViper(t.TempDir(), flags)
		assert.Equal(t, "sepolia", v.GetString("network"))
		assert.True(t, v.GetBool("non_interactive"))
		assert.False(t, v.GetBool("debug"))
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("FUNDME_NETWORK", "hardhat")
		v := SetupViper(t.TempDir(), nil)
		assert.Equal(t, "hardhat", v.GetString("network"))
	})
}

func TestNetworkResolver_Resolve(t *testing.T) {
	t.Setenv("FUNDME_TEST_SEPOLIA_URL", "https://sepolia.example")
	t.Setenv("FUNDME_TEST_PRIVATE_KEY", "")

	project, err := LoadProjectConfig(writeProject(t, projectTOML))
	require.NoError(t, err)

	dataDir := filepath.Join(t.TempDir(), DataDirName)
	calls := 0
	fetcher := func(ctx context.Context, rpcURL string) (uint64, error) {
		calls++
		assert.Equal(t, "https://sepolia.example", rpcURL)
		return 11155111, nil
	}

	resolver := NewNetworkResolver(dataDir, project).WithChainIDFetcher(fetcher)

	t.Run("configured chain id skips rpc", func(t *testing.T) {
		network, err := resolver.Resolve(context.Background(), "localhost")
		require.NoError(t, err)
		assert.Equal(t, uint64(31337), network.ChainID)
		assert.True(t, network.Development)
		assert.Equal(t, uint64(1), network.Confirmations())
		assert.Equal(t, 0, calls)
	})

	t.Run("chain id fetched and cached", func(t *testing.T) {
		network, err := resolver.Resolve(context.Background(), "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), network.ChainID)
		assert.False(t, network.Development)
		assert.Equal(t, uint64(6), network.Confirmations())
		assert.Equal(t, "https://sepolia.etherscan.io", network.ExplorerURL)
		assert.Equal(t, DefaultExplorerAPIURL, network.ExplorerAPIURL)
		assert.Equal(t, 1, calls)
		assert.FileExists(t, filepath.Join(dataDir, "chainIds.json"))

		// A fresh resolver reads the persisted cache
		failing := func(ctx context.Context, rpcURL string) (uint64, error) {
			return 0, errors.New("offline")
		}
		again, err := NewNetworkResolver(dataDir, project).WithChainIDFetcher(failing).Resolve(context.Background(), "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), again.ChainID)
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "mainnet")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("names sorted", func(t *testing.T) {
		assert.Equal(t, []string{"hardhat", "localhost", "sepolia"}, resolver.Names())
	})
}

func TestNetworkResolver_DefaultDevelopmentNetworks(t *testing.T) {
	resolver := NewNetworkResolver(t.TempDir(), config.DefaultProjectConfig())

	for _, name := range []string{"hardhat", "localhost"} {
		network, err := resolver.Resolve(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, uint64(31337), network.ChainID, name)
		assert.True(t, network.Development, name)
		assert.Equal(t, "http://127.0.0.1:8545", network.RPCURL, name)
	}
}

func TestProvider(t *testing.T) {
	root := writeProject(t, "")
	v := SetupViper(root, nil)

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DataDirName), cfg.DataDir)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, "localhost", cfg.Network.Name)
	assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
}
