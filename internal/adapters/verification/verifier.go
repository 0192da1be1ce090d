package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Verifier rebuilds the compiler input for a deployment and hands it to the
// configured backend
type Verifier struct {
	kind      config.VerifierKind
	artifacts usecase.ArtifactRepository
	etherscan *EtherscanClient
	forge     *ForgeVerifier
}

// NewVerifier creates the verifier selected by [verify] verifier
func NewVerifier(cfg *config.RuntimeConfig, artifacts usecase.ArtifactRepository, log *slog.Logger) *Verifier {
	verify := cfg.Project.Verify
	return &Verifier{
		kind:      verify.Verifier,
		artifacts: artifacts,
		etherscan: NewEtherscanClient(verify, log),
		forge:     NewForgeVerifier(cfg.ProjectRoot, verify.APIKey, cfg.Debug, log),
	}
}

// Verify implements usecase.ContractVerifier
func (v *Verifier) Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) (*models.VerificationInfo, error) {
	artifact, err := v.artifacts.Get(ctx, deployment.ContractName)
	if err != nil {
		return nil, err
	}
	input, err := v.artifacts.VerificationInput(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to build compiler input for %s: %w", deployment.ContractName, err)
	}

	switch v.kind {
	case config.VerifierForge:
		return v.forge.Verify(ctx, network, deployment, input)
	case config.VerifierEtherscan, "":
		return v.etherscan.Verify(ctx, network, SubmitParams{
			ChainID:         network.ChainID,
			Address:         deployment.Address,
			Input:           input,
			ConstructorArgs: deployment.ConstructorArgs,
		})
	default:
		return nil, fmt.Errorf("unsupported verifier %q", v.kind)
	}
}

var _ usecase.ContractVerifier = (*Verifier)(nil)
