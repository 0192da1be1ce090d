package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ProjectFile is the project configuration file name
const ProjectFile = "fundme.toml"

// EtherscanAPIKeyEnv is read when [verify] api_key is not set
const EtherscanAPIKeyEnv = "ETHERSCAN_API_KEY"

// loadEnvFiles loads .env and .env.local without overriding the process environment
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadProjectConfig loads fundme.toml on top of the defaults and expands
// ${VAR} references. A missing file yields the defaults.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := config.DefaultProjectConfig()

	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
		}
	}

	expandProjectConfig(cfg)

	if cfg.Verify.APIKey == "" {
		cfg.Verify.APIKey = os.Getenv(EtherscanAPIKeyEnv)
	}
	if cfg.Verify.Attempts <= 0 {
		cfg.Verify.Attempts = config.DefaultVerifyAttempts
	}
	if cfg.Verify.PollInterval <= 0 {
		cfg.Verify.PollInterval = config.DefaultVerifyPollInterval
	}
	if cfg.Artifacts.Dir == "" {
		cfg.Artifacts.Dir = config.DefaultArtifactsDir
	}

	switch cfg.Artifacts.Format {
	case "":
		cfg.Artifacts.Format = config.ArtifactFormatFoundry
	case config.ArtifactFormatFoundry, config.ArtifactFormatHardhat:
	default:
		return nil, fmt.Errorf("unknown artifacts format %q (expected foundry or hardhat)", cfg.Artifacts.Format)
	}

	switch cfg.Verify.Verifier {
	case "":
		cfg.Verify.Verifier = config.VerifierEtherscan
	case config.VerifierEtherscan, config.VerifierForge:
	default:
		return nil, fmt.Errorf("unknown verifier %q (expected etherscan or forge)", cfg.Verify.Verifier)
	}

	return cfg, nil
}

func expandProjectConfig(cfg *config.ProjectConfig) {
	for name, network := range cfg.Networks {
		network.URL = os.ExpandEnv(network.URL)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
		network.ExplorerAPIURL = os.ExpandEnv(network.ExplorerAPIURL)

		accounts := make([]string, 0, len(network.Accounts))
		for _, account := range network.Accounts {
			// unset variables drop the entry instead of leaving an empty key
			if expanded := os.ExpandEnv(account); expanded != "" {
				accounts = append(accounts, expanded)
			}
		}
		network.Accounts = accounts
		cfg.Networks[name] = network
	}

	for name, account := range cfg.NamedAccounts {
		account.Default = os.ExpandEnv(account.Default)
		for network, ref := range account.PerNetwork {
			account.PerNetwork[network] = os.ExpandEnv(ref)
		}
		cfg.NamedAccounts[name] = account
	}

	for chainID, entry := range cfg.NetworkConfig {
		entry.EthUsdPriceFeed = os.ExpandEnv(entry.EthUsdPriceFeed)
		cfg.NetworkConfig[chainID] = entry
	}

	cfg.Verify.APIKey = os.ExpandEnv(cfg.Verify.APIKey)
	cfg.Verify.APIURL = os.ExpandEnv(cfg.Verify.APIURL)
}
