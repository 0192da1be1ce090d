package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Repository loads compiled contracts from Foundry or Hardhat build output
type Repository struct {
	projectRoot string
	dir         string
	format      config.ArtifactFormat
	log         *slog.Logger

	mu    sync.Mutex
	cache map[string]*loadedArtifact
}

type loadedArtifact struct {
	artifact *models.Artifact
	metadata *compilerMetadata // foundry only
	dbgPath  string            // hardhat only
}

// foundryArtifact is the subset of out/<File>.sol/<Name>.json we read
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object         string         `json:"object"`
		LinkReferences map[string]any `json:"linkReferences"`
	} `json:"bytecode"`
	DeployedBytecode struct {
		Object string `json:"object"`
	} `json:"deployedBytecode"`
	Metadata *compilerMetadata `json:"metadata"`
}

// compilerMetadata is the solc metadata embedded by forge
type compilerMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string `json:"language"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
		EVMVersion        string            `json:"evmVersion,omitempty"`
		Libraries         map[string]string `json:"libraries,omitempty"`
		Metadata          json.RawMessage   `json:"metadata,omitempty"`
		Optimizer         json.RawMessage   `json:"optimizer,omitempty"`
		Remappings        []string          `json:"remappings,omitempty"`
		ViaIR             bool              `json:"viaIR,omitempty"`
	} `json:"settings"`
	Sources map[string]json.RawMessage `json:"sources"`
}

// hardhatArtifact is artifacts/contracts/<File>.sol/<Name>.json
type hardhatArtifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`
	LinkReferences   map[string]any  `json:"linkReferences"`
}

type hardhatDebug struct {
	BuildInfo string `json:"buildInfo"`
}

type hardhatBuildInfo struct {
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}

// NewRepository creates a new artifact repository
func NewRepository(projectRoot string, artifacts config.ArtifactsConfig, log *slog.Logger) *Repository {
	format := artifacts.Format
	if format == "" {
		format = config.ArtifactFormatFoundry
	}
	dir := artifacts.Dir
	if dir == "" {
		dir = config.DefaultArtifactsDir
		if format == config.ArtifactFormatHardhat {
			dir = "artifacts"
		}
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot, dir)
	}

	return &Repository{
		projectRoot: projectRoot,
		dir:         dir,
		format:      format,
		log:         log.With("component", "artifacts"),
		cache:       make(map[string]*loadedArtifact),
	}
}

// ProvideRepository is the wire provider
func ProvideRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return NewRepository(cfg.ProjectRoot, cfg.Project.Artifacts, log)
}

// Get returns the artifact for contractName
func (r *Repository) Get(ctx context.Context, contractName string) (*models.Artifact, error) {
	loaded, err := r.load(contractName)
	if err != nil {
		return nil, err
	}
	copied := *loaded.artifact
	return &copied, nil
}

func (r *Repository) load(contractName string) (*loadedArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loaded, ok := r.cache[contractName]; ok {
		return loaded, nil
	}

	paths, err := r.find(contractName)
	if err != nil {
		return nil, err
	}

	var loaded *loadedArtifact
	switch r.format {
	case config.ArtifactFormatHardhat:
		loaded, err = r.loadHardhat(contractName, paths)
	default:
		loaded, err = r.loadFoundry(contractName, paths)
	}
	if err != nil {
		return nil, err
	}

	r.cache[contractName] = loaded
	return loaded, nil
}

// find walks the build output for <contractName>.json files
func (r *Repository) find(contractName string) ([]string, error) {
	if _, err := os.Stat(r.dir); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist, compile the contracts first", domain.ErrContractNotFound, r.dir)
	}

	target := contractName + ".json"
	var paths []string
	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == target {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrContractNotFound, contractName, r.dir)
	}
	return paths, nil
}

func (r *Repository) loadFoundry(contractName string, paths []string) (*loadedArtifact, error) {
	var candidates []*loadedArtifact
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var raw foundryArtifact
		if err := json.Unmarshal(data, &raw); err != nil {
			r.log.Debug("skipping unreadable artifact", "path", path, "error", err)
			continue
		}
		if raw.Bytecode.Object == "" || raw.Bytecode.Object == "0x" {
			// interfaces and abstract contracts
			continue
		}

		artifact := &models.Artifact{
			ContractName:     contractName,
			Path:             r.relative(path),
			ABI:              raw.ABI,
			Bytecode:         raw.Bytecode.Object,
			DeployedBytecode: raw.DeployedBytecode.Object,
			LinkReferences:   raw.Bytecode.LinkReferences,
		}
		if raw.Metadata != nil {
			artifact.CompilerVersion = raw.Metadata.Compiler.Version
			for source, name := range raw.Metadata.Settings.CompilationTarget {
				if name == contractName {
					artifact.SourceName = source
				}
			}
		}
		if artifact.SourceName == "" {
			// out/<File>.sol/<Name>.json without metadata
			artifact.SourceName = filepath.Base(filepath.Dir(path))
		}
		candidates = append(candidates, &loadedArtifact{artifact: artifact, metadata: raw.Metadata})
	}

	return r.pick(contractName, candidates)
}

func (r *Repository) loadHardhat(contractName string, paths []string) (*loadedArtifact, error) {
	var candidates []*loadedArtifact
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var raw hardhatArtifact
		if err := json.Unmarshal(data, &raw); err != nil || raw.ContractName != contractName {
			continue
		}
		if raw.Bytecode == "" || raw.Bytecode == "0x" {
			continue
		}

		loaded := &loadedArtifact{
			artifact: &models.Artifact{
				ContractName:     raw.ContractName,
				SourceName:       raw.SourceName,
				Path:             r.relative(path),
				ABI:              raw.ABI,
				Bytecode:         raw.Bytecode,
				DeployedBytecode: raw.DeployedBytecode,
				LinkReferences:   raw.LinkReferences,
			},
			dbgPath: strings.TrimSuffix(path, ".json") + ".dbg.json",
		}
		if info, err := r.hardhatBuildInfo(loaded.dbgPath); err == nil {
			loaded.artifact.CompilerVersion = info.SolcLongVersion
		} else {
			r.log.Debug("no build info for artifact", "path", path, "error", err)
		}
		candidates = append(candidates, loaded)
	}

	return r.pick(contractName, candidates)
}

// pick resolves duplicate contract names, preferring project sources over
// dependencies.
func (r *Repository) pick(contractName string, candidates []*loadedArtifact) (*loadedArtifact, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s has no creation bytecode", domain.ErrContractNotFound, contractName)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	local := lo.Filter(candidates, func(c *loadedArtifact, _ int) bool {
		source := c.artifact.SourceName
		return strings.HasPrefix(source, "src/") || strings.HasPrefix(source, "contracts/")
	})
	if len(local) == 1 {
		return local[0], nil
	}

	sources := lo.Map(candidates, func(c *loadedArtifact, _ int) string { return c.artifact.Identifier() })
	return nil, fmt.Errorf("multiple artifacts named %s: %s", contractName, strings.Join(sources, ", "))
}

func (r *Repository) hardhatBuildInfo(dbgPath string) (*hardhatBuildInfo, error) {
	data, err := os.ReadFile(dbgPath)
	if err != nil {
		return nil, err
	}
	var dbg hardhatDebug
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil, fmt.Errorf("%s has no buildInfo", dbgPath)
	}

	path := dbg.BuildInfo
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(dbgPath), path)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info hardhatBuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &info, nil
}

// VerificationInput returns the standard JSON input for the artifact's
// compilation. Hardhat keeps it in build-info; for Foundry it is rebuilt from
// the embedded metadata and the sources on disk.
func (r *Repository) VerificationInput(ctx context.Context, artifact *models.Artifact) (*models.VerificationInput, error) {
	loaded, err := r.load(artifact.ContractName)
	if err != nil {
		return nil, err
	}

	input := &models.VerificationInput{
		ContractIdentifier: loaded.artifact.Identifier(),
		CompilerVersion:    loaded.artifact.CompilerVersion,
	}

	switch {
	case loaded.dbgPath != "":
		info, err := r.hardhatBuildInfo(loaded.dbgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load build info: %w", err)
		}
		input.StandardJSON = info.Input
	case loaded.metadata != nil:
		input.StandardJSON, err = r.standardJSON(loaded.metadata)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("artifact %s has no compiler metadata, build with metadata enabled", artifact.Path)
	}

	if input.CompilerVersion == "" {
		return nil, fmt.Errorf("unknown compiler version for %s", input.ContractIdentifier)
	}
	return input, nil
}

type standardJSONInput struct {
	Language string                    `json:"language"`
	Sources  map[string]standardSource `json:"sources"`
	Settings map[string]any            `json:"settings"`
}

type standardSource struct {
	Content string `json:"content"`
}

func (r *Repository) standardJSON(meta *compilerMetadata) (json.RawMessage, error) {
	input := standardJSONInput{
		Language: lo.Ternary(meta.Language == "", "Solidity", meta.Language),
		Sources:  make(map[string]standardSource, len(meta.Sources)),
		Settings: map[string]any{
			"outputSelection": map[string]any{
				"*": map[string]any{
					"*": []string{"abi", "evm.bytecode", "evm.deployedBytecode", "evm.methodIdentifiers", "metadata"},
					"":  []string{"ast"},
				},
			},
		},
	}

	for _, source := range lo.Keys(meta.Sources) {
		content, err := os.ReadFile(filepath.Join(r.projectRoot, source))
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", source, err)
		}
		input.Sources[source] = standardSource{Content: string(content)}
	}

	settings := meta.Settings
	if len(settings.Optimizer) > 0 {
		input.Settings["optimizer"] = settings.Optimizer
	}
	if settings.EVMVersion != "" {
		input.Settings["evmVersion"] = settings.EVMVersion
	}
	if len(settings.Remappings) > 0 {
		input.Settings["remappings"] = settings.Remappings
	}
	if len(settings.Metadata) > 0 {
		input.Settings["metadata"] = settings.Metadata
	}
	if settings.ViaIR {
		input.Settings["viaIR"] = true
	}
	if len(settings.Libraries) > 0 {
		// metadata keys are "file:Lib", standard JSON nests them by file
		libraries := make(map[string]map[string]string)
		for key, address := range settings.Libraries {
			file, name, ok := strings.Cut(key, ":")
			if !ok {
				continue
			}
			if libraries[file] == nil {
				libraries[file] = make(map[string]string)
			}
			libraries[file][name] = address
		}
		input.Settings["libraries"] = libraries
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode standard JSON input: %w", err)
	}
	return data, nil
}

func (r *Repository) relative(path string) string {
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil {
		return rel
	}
	return path
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
