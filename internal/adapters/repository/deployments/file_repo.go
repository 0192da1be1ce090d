package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	DeploymentsDir = "deployments"
	ChainIDFile    = ".chainId"
)

// FileRepository stores one JSON record per contract and network under
// deployments/<network>/<ContractName>.json, next to a .chainId marker.
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at rootDir/deployments
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: filepath.Join(rootDir, DeploymentsDir)}
}

// ProvideFileRepository is the wire provider
func ProvideFileRepository(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.ProjectRoot)
}

func (r *FileRepository) networkDir(network string) string {
	return filepath.Join(r.rootDir, network)
}

func (r *FileRepository) recordPath(network, contractName string) string {
	return filepath.Join(r.networkDir(network), contractName+".json")
}

// Get returns the latest deployment of contractName on network
func (r *FileRepository) Get(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deployment, err := r.read(r.recordPath(network, contractName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.DeploymentNotFoundError{Contract: contractName, Network: network}
	}
	if err != nil {
		return nil, err
	}
	if deployment.Network == "" {
		deployment.Network = network
	}
	if deployment.ContractName == "" {
		deployment.ContractName = contractName
	}
	if deployment.ChainID == 0 {
		if deployment.ChainID, err = r.chainID(network); err != nil {
			return nil, err
		}
	}
	return deployment, nil
}

// List returns every record on network, or on every network when network is empty
func (r *FileRepository) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		var err error
		if networks, err = r.networks(); err != nil {
			return nil, err
		}
	}

	var result []*models.Deployment
	for _, name := range networks {
		entries, err := os.ReadDir(r.networkDir(name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments for %s: %w", name, err)
		}

		chainID, err := r.chainID(name)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			deployment, err := r.read(filepath.Join(r.networkDir(name), entry.Name()))
			if err != nil {
				return nil, err
			}
			if deployment.Network == "" {
				deployment.Network = name
			}
			if deployment.ContractName == "" {
				deployment.ContractName = strings.TrimSuffix(entry.Name(), ".json")
			}
			if deployment.ChainID == 0 {
				deployment.ChainID = chainID
			}
			result = append(result, deployment)
		}
	}
	return result, nil
}

// Save overwrites the record for the deployment's contract and network and
// writes the .chainId marker.
func (r *FileRepository) Save(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Network == "" || deployment.ContractName == "" {
		return fmt.Errorf("deployment needs a network and a contract name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := r.networkDir(deployment.Network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if deployment.ChainID != 0 {
		chainID := []byte(strconv.FormatUint(deployment.ChainID, 10))
		if err := writeAtomic(filepath.Join(dir, ChainIDFile), chainID); err != nil {
			return fmt.Errorf("failed to write chain id: %w", err)
		}
	}

	data, err := json.MarshalIndent(deployment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deployment: %w", err)
	}
	return writeAtomic(r.recordPath(deployment.Network, deployment.ContractName), data)
}

// chainID reads the .chainId marker of network, or 0 if none is recorded.
// Records written by hardhat-deploy carry the chain id only there.
func (r *FileRepository) chainID(network string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(r.networkDir(network), ChainIDFile))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s for %s: %w", ChainIDFile, network, err)
	}
	return id, nil
}

// Reset removes every record stored for network
func (r *FileRepository) Reset(ctx context.Context, network string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return os.RemoveAll(r.networkDir(network))
}

func (r *FileRepository) networks() ([]string, error) {
	entries, err := os.ReadDir(r.rootDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (r *FileRepository) read(path string) (*models.Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var deployment models.Deployment
	if err := json.Unmarshal(data, &deployment); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &deployment, nil
}

// writeAtomic writes to a temp file first and renames it into place
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
