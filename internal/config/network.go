package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// DefaultExplorerAPIURL is the Etherscan multichain endpoint
const DefaultExplorerAPIURL = "https://api.etherscan.io/v2/api"

// ChainIDFetcher asks an RPC endpoint for its chain id
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	dataDir      string
	project      *config.ProjectConfig
	cache        *NetworkCache
	fetchChainID ChainIDFetcher
	mu           sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(dataDir string, project *config.ProjectConfig) *NetworkResolver {
	r := &NetworkResolver{
		dataDir:      dataDir,
		project:      project,
		fetchChainID: fetchChainID,
	}

	// Load cache
	r.loadCache()

	return r
}

// WithChainIDFetcher replaces the RPC lookup, used by tests
func (r *NetworkResolver) WithChainIDFetcher(f ChainIDFetcher) *NetworkResolver {
	r.fetchChainID = f
	return r
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.project.Networks))
	for name := range r.project.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	entry, exists := r.project.Networks[networkName]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in %s [networks]", networkName, ProjectFile)
	}
	if entry.URL == "" {
		return nil, fmt.Errorf("network '%s' has no url", networkName)
	}

	chainID := entry.ChainID
	if chainID == 0 {
		// Check cache first
		r.mu.RLock()
		cached, ok := r.cache.RPCs[entry.URL]
		r.mu.RUnlock()

		if ok {
			chainID = cached
		} else {
			fetched, err := r.fetchChainID(ctx, entry.URL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
			}
			chainID = fetched

			// Cache is best effort
			_ = r.updateCache(networkName, entry.URL, chainID)
		}
	}

	explorer := entry.ExplorerURL
	if explorer == "" {
		explorer = defaultExplorerURL(chainID)
	}
	explorerAPI := entry.ExplorerAPIURL
	if explorerAPI == "" {
		explorerAPI = DefaultExplorerAPIURL
	}

	return &config.Network{
		Name:               networkName,
		ChainID:            chainID,
		RPCURL:             entry.URL,
		ExplorerURL:        explorer,
		ExplorerAPIURL:     explorerAPI,
		BlockConfirmations: entry.BlockConfirmations,
		Accounts:           entry.Accounts,
		Development:        r.project.IsDevelopment(networkName),
	}, nil
}

// fetchChainID fetches the chain ID from an RPC endpoint
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	return chainID.Uint64(), nil
}

// defaultExplorerURL returns the explorer URL for well known chains
func defaultExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 56:
		return "https://bscscan.com"
	case 43114:
		return "https://snowtrace.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.dataDir, "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	var loaded NetworkCache
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.RPCs == nil {
		return
	}
	if loaded.Networks == nil {
		loaded.Networks = make(map[string]uint64)
	}
	r.cache = &loaded
}

// updateCache records a chain ID lookup and persists the cache
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.cachePath(), data, 0644)
}
