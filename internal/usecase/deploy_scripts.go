package usecase

import (
	"context"
	"log/slog"
	"math/big"
	"slices"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// Contract and account names used by the deploy scripts
const (
	FundMeName      = "FundMe"
	DeployerAccount = "deployer"
)

// Deploy script tags
const (
	TagAll    = "all"
	TagMocks  = "mocks"
	TagFundMe = "fundme"
)

// DeployScript is one step of `fundme deploy`, selected by tag
type DeployScript interface {
	Name() string
	Tags() []string
	Run(ctx context.Context, env DeployEnvironment) error
}

// MatchesTags reports whether the script carries any of the tags
func MatchesTags(script DeployScript, tags []string) bool {
	for _, tag := range script.Tags() {
		if slices.Contains(tags, tag) {
			return true
		}
	}
	return false
}

// DeployMocks deploys MockV3Aggregator on development networks
type DeployMocks struct {
	project *config.ProjectConfig
}

// NewDeployMocks creates the mock deployment script
func NewDeployMocks(cfg *config.RuntimeConfig) *DeployMocks {
	return &DeployMocks{project: cfg.Project}
}

func (s *DeployMocks) Name() string   { return "00-deploy-mocks" }
func (s *DeployMocks) Tags() []string { return []string{TagAll, TagMocks} }

func (s *DeployMocks) Run(ctx context.Context, env DeployEnvironment) error {
	if !s.project.IsDevelopment(env.Network().Name) {
		return nil
	}

	env.Log("Local network detected! Deploying mocks...")
	_, err := env.Deploy(ctx, models.DeployRequest{
		ContractName:      MockAggregatorName,
		From:              DeployerAccount,
		Args:              []any{s.project.Mocks.Decimals, big.NewInt(s.project.Mocks.InitialAnswer)},
		Log:               true,
		WaitConfirmations: 1,
	})
	if err != nil {
		return err
	}
	env.Log("Mocks deployed!")
	env.Log("--------------------------------")
	return nil
}

// DeployFundMe resolves the price feed, deploys FundMe with it as the only
// constructor argument and verifies the contract on live networks.
type DeployFundMe struct {
	project   *config.ProjectConfig
	priceFeed *ResolvePriceFeed
	verifier  DeploymentVerifier
	log       *slog.Logger
}

// NewDeployFundMe creates the FundMe deployment script
func NewDeployFundMe(cfg *config.RuntimeConfig, priceFeed *ResolvePriceFeed, verifier DeploymentVerifier, log *slog.Logger) *DeployFundMe {
	return &DeployFundMe{
		project:   cfg.Project,
		priceFeed: priceFeed,
		verifier:  verifier,
		log:       log.With("component", "deploy-fund-me"),
	}
}

func (s *DeployFundMe) Name() string   { return "01-deploy-fund-me" }
func (s *DeployFundMe) Tags() []string { return []string{TagAll, TagFundMe} }

func (s *DeployFundMe) Run(ctx context.Context, env DeployEnvironment) error {
	network := env.Network()

	feed, err := s.priceFeed.Resolve(ctx, network)
	if err != nil {
		return err
	}

	args := []any{feed}
	deployment, err := env.Deploy(ctx, models.DeployRequest{
		ContractName:      FundMeName,
		From:              DeployerAccount,
		Args:              args,
		Log:               true,
		WaitConfirmations: network.Confirmations(),
	})
	if err != nil {
		return err
	}

	if !s.project.IsDevelopment(network.Name) && s.project.VerificationEnabled() {
		if err := s.verifier.Verify(ctx, network, deployment); err != nil {
			s.log.Warn("verification failed", "contract", FundMeName, "address", deployment.Address, "error", err)
			env.Log("verification of %s failed: %v", FundMeName, err)
		}
	}

	env.Log("--------------------------------")
	return nil
}

// ProvideDeployScripts returns the deploy scripts in execution order
func ProvideDeployScripts(mocks *DeployMocks, fundMe *DeployFundMe) []DeployScript {
	return []DeployScript{mocks, fundMe}
}
