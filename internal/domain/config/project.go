package config

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Default values used when fundme.toml omits a setting
const (
	DefaultMockDecimals      uint8 = 8
	DefaultMockInitialAnswer int64 = 200000000000
	DefaultArtifactsDir            = "out"
	DefaultVerifyAttempts          = 10
	DefaultVerifyPollInterval      = 5 * time.Second
)

// ArtifactFormat selects the compiler output layout
type ArtifactFormat string

const (
	ArtifactFormatFoundry ArtifactFormat = "foundry"
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
)

// VerifierKind selects the verification backend
type VerifierKind string

const (
	VerifierEtherscan VerifierKind = "etherscan"
	VerifierForge     VerifierKind = "forge"
)

// ProjectConfig is the parsed fundme.toml
type ProjectConfig struct {
	DevelopmentChains []string                `toml:"development_chains"`
	Networks          map[string]NetworkEntry `toml:"networks"`
	NamedAccounts     map[string]NamedAccount `toml:"named_accounts"`
	NetworkConfig     map[string]ChainEntry   `toml:"network_config"`
	Mocks             MocksConfig             `toml:"mocks"`
	Artifacts         ArtifactsConfig         `toml:"artifacts"`
	Verify            VerifyConfig            `toml:"verify"`
}

// NetworkEntry is a [networks.<name>] section
type NetworkEntry struct {
	URL                string   `toml:"url"`
	ChainID            uint64   `toml:"chain_id"`
	BlockConfirmations uint64   `toml:"block_confirmations"`
	Accounts           []string `toml:"accounts"`
	ExplorerURL        string   `toml:"explorer_url"`
	ExplorerAPIURL     string   `toml:"explorer_api_url"`
}

// ChainEntry is a [network_config.<chainId>] section
type ChainEntry struct {
	Name            string `toml:"name"`
	EthUsdPriceFeed string `toml:"eth_usd_price_feed"`
}

// MocksConfig holds the MockV3Aggregator constructor arguments
type MocksConfig struct {
	Decimals      uint8 `toml:"decimals"`
	InitialAnswer int64 `toml:"initial_answer"`
}

// ArtifactsConfig locates compiled contracts
type ArtifactsConfig struct {
	Dir    string         `toml:"dir"`
	Format ArtifactFormat `toml:"format"`
}

// VerifyConfig configures source verification
type VerifyConfig struct {
	Verifier     VerifierKind  `toml:"verifier"`
	APIKey       string        `toml:"api_key"`
	APIURL       string        `toml:"api_url"`
	PollInterval time.Duration `toml:"poll_interval"`
	Attempts     int           `toml:"attempts"`
}

// NamedAccount maps a role name to an account reference, optionally per network.
// A reference is an index into the network's accounts, a private key or an address.
type NamedAccount struct {
	Default    string
	PerNetwork map[string]string
}

// UnmarshalTOML accepts `deployer = 0`, `deployer = "0x..."` or
// `deployer = { default = 0, sepolia = "0x..." }`.
func (a *NamedAccount) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case map[string]any:
		a.PerNetwork = make(map[string]string, len(v))
		for network, ref := range v {
			s, err := accountRef(ref)
			if err != nil {
				return fmt.Errorf("named account entry %q: %w", network, err)
			}
			if network == "default" {
				a.Default = s
				continue
			}
			a.PerNetwork[network] = s
		}
		return nil
	default:
		s, err := accountRef(v)
		if err != nil {
			return err
		}
		a.Default = s
		return nil
	}
}

// For returns the account reference used on the given network.
func (a NamedAccount) For(network string) (string, bool) {
	if ref, ok := a.PerNetwork[network]; ok {
		return ref, true
	}
	return a.Default, a.Default != ""
}

func accountRef(v any) (string, error) {
	switch ref := v.(type) {
	case int64:
		if ref < 0 {
			return "", fmt.Errorf("negative account index %d", ref)
		}
		return strconv.FormatInt(ref, 10), nil
	case string:
		return ref, nil
	default:
		return "", fmt.Errorf("unsupported account reference %v (%T)", v, v)
	}
}

// DefaultProjectConfig returns the configuration used when fundme.toml leaves
// settings out.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		DevelopmentChains: []string{"hardhat", "localhost"},
		Networks: map[string]NetworkEntry{
			"hardhat":   {URL: "http://127.0.0.1:8545", ChainID: 31337},
			"localhost": {URL: "http://127.0.0.1:8545", ChainID: 31337},
		},
		NamedAccounts: map[string]NamedAccount{
			"deployer": {Default: "0"},
			"user":     {Default: "1"},
		},
		NetworkConfig: map[string]ChainEntry{},
		Mocks: MocksConfig{
			Decimals:      DefaultMockDecimals,
			InitialAnswer: DefaultMockInitialAnswer,
		},
		Artifacts: ArtifactsConfig{
			Dir:    DefaultArtifactsDir,
			Format: ArtifactFormatFoundry,
		},
		Verify: VerifyConfig{
			Verifier:     VerifierEtherscan,
			PollInterval: DefaultVerifyPollInterval,
			Attempts:     DefaultVerifyAttempts,
		},
	}
}

// IsDevelopment reports whether the named network uses mock price feeds.
func (c *ProjectConfig) IsDevelopment(network string) bool {
	return slices.Contains(c.DevelopmentChains, network)
}

// PriceFeedFor looks up the statically configured ETH/USD feed for a chain.
func (c *ProjectConfig) PriceFeedFor(chainID uint64) (common.Address, bool) {
	entry, ok := c.NetworkConfig[strconv.FormatUint(chainID, 10)]
	if !ok || !common.IsHexAddress(entry.EthUsdPriceFeed) {
		return common.Address{}, false
	}
	addr := common.HexToAddress(entry.EthUsdPriceFeed)
	if addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}

// VerificationEnabled reports whether an explorer credential is configured.
func (c *ProjectConfig) VerificationEnabled() bool {
	return c.Verify.APIKey != ""
}
