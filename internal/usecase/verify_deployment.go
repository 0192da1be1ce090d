package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// VerifyDeployment handles contract verification on block explorers
type VerifyDeployment struct {
	config      *config.RuntimeConfig
	deployments DeploymentRepository
	verifier    ContractVerifier
	progress    ProgressSink
	log         *slog.Logger
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	deployments DeploymentRepository,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:      cfg,
		deployments: deployments,
		verifier:    verifier,
		progress:    progress,
		log:         log.With("component", "verify"),
	}
}

// VerifyParams contains parameters for verifying a stored deployment
type VerifyParams struct {
	ContractName string
	Force        bool // Re-verify even if already verified
}

// VerifyResult contains the result of verification
type VerifyResult struct {
	Deployment *models.Deployment
	Network    *config.Network
	Skipped    bool
	Success    bool
	Error      error
}

// Verify submits a deployment for verification and records the outcome on
// the stored record. A failed verification is returned as an error wrapping
// domain.ErrVerificationFailed.
func (v *VerifyDeployment) Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) error {
	v.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageVerifying,
		Message: fmt.Sprintf("Verifying %s at %s", deployment.ContractName, deployment.Address),
		Spinner: true,
	})

	info, verifyErr := v.verifier.Verify(ctx, network, deployment)
	if verifyErr != nil {
		reason := verifyErr.Error()
		if info == nil {
			info = &models.VerificationInfo{}
		}
		info.Status = models.VerificationStatusFailed
		info.Reason = reason
	} else if info.Status == "" {
		info.Status = models.VerificationStatusVerified
	}
	if info.Status == models.VerificationStatusVerified && info.VerifiedAt == nil {
		now := time.Now()
		info.VerifiedAt = &now
	}

	deployment.Verification = *info
	deployment.UpdatedAt = time.Now()
	if err := v.deployments.Save(ctx, deployment); err != nil {
		v.log.Warn("failed to record verification status", "contract", deployment.ContractName, "error", err)
	}

	if verifyErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, verifyErr)
	}
	v.progress.Info(fmt.Sprintf("verified %s at %s", deployment.ContractName, deployment.Address))
	return nil
}

// Run verifies a stored deployment by contract name on the selected network
func (v *VerifyDeployment) Run(ctx context.Context, params VerifyParams) (*VerifyResult, error) {
	network := v.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected, use --network")
	}
	if network.Development {
		return nil, fmt.Errorf("%s is a development network, there is no explorer to verify on", network.Name)
	}
	if !v.config.Project.VerificationEnabled() {
		return nil, fmt.Errorf("no explorer API key configured, set ETHERSCAN_API_KEY or [verify] api_key")
	}

	deployment, err := lookupDeployment(ctx, v.deployments, network.Name, params.ContractName)
	if err != nil {
		var notFound domain.DeploymentNotFoundError
		if errors.As(err, &notFound) {
			notFound.Suggestions = v.suggest(ctx, network.Name, params.ContractName)
			return nil, notFound
		}
		return nil, err
	}

	result := &VerifyResult{Deployment: deployment, Network: network}
	if deployment.IsVerified() && !params.Force {
		result.Skipped = true
		result.Success = true
		return result, nil
	}

	if err := v.Verify(ctx, network, deployment); err != nil {
		result.Error = err
		return result, nil
	}
	result.Success = true
	return result, nil
}

// suggest returns up to three stored contract names close to name
func (v *VerifyDeployment) suggest(ctx context.Context, network, name string) []string {
	records, err := v.deployments.List(ctx, network)
	if err != nil || len(records) == 0 {
		return nil
	}

	names := lo.Map(records, func(d *models.Deployment, _ int) string { return d.ContractName })
	matches := fuzzy.Find(name, names)
	suggestions := make([]string, 0, 3)
	for _, match := range matches {
		if len(suggestions) == 3 {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}
