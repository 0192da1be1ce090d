package verification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// forgeRunner runs forge with args in dir and returns its combined output
type forgeRunner func(ctx context.Context, dir string, args []string) (string, error)

// ForgeVerifier verifies through `forge verify-contract`
type ForgeVerifier struct {
	projectRoot string
	apiKey      string
	run         forgeRunner
	log         *slog.Logger
}

// NewForgeVerifier creates a forge verifier. In debug mode forge output is
// streamed to stderr through a pty so colors survive.
func NewForgeVerifier(projectRoot, apiKey string, debug bool, log *slog.Logger) *ForgeVerifier {
	run := runForgeCombined
	if debug {
		run = runForgePTY
	}
	return &ForgeVerifier{
		projectRoot: projectRoot,
		apiKey:      apiKey,
		run:         run,
		log:         log.With("component", "forge-verifier"),
	}
}

// Verify runs forge verify-contract for deployment
func (f *ForgeVerifier) Verify(ctx context.Context, network *config.Network, deployment *models.Deployment, input *models.VerificationInput) (*models.VerificationInfo, error) {
	info := &models.VerificationInfo{
		Verifier: string(config.VerifierForge),
		URL:      explorerCodeURL(network, deployment.Address),
	}

	args := f.buildArgs(network, deployment, input)
	f.log.Debug("running forge", "args", redact(args, f.apiKey))

	output, err := f.run(ctx, f.projectRoot, args)
	if verifyErr := interpretForgeOutput(output, err); verifyErr != nil {
		return info, verifyErr
	}
	info.Status = models.VerificationStatusVerified
	return info, nil
}

// buildArgs builds the forge verify-contract args
func (f *ForgeVerifier) buildArgs(network *config.Network, deployment *models.Deployment, input *models.VerificationInput) []string {
	args := []string{
		"verify-contract",
		deployment.Address,
		input.ContractIdentifier,
		"--chain-id", fmt.Sprintf("%d", network.ChainID),
		"--watch",
	}

	if network.ExplorerAPIURL != "" {
		args = append(args, "--verifier-url", network.ExplorerAPIURL)
	}
	if f.apiKey != "" {
		args = append(args, "--etherscan-api-key", f.apiKey)
	}
	if input.CompilerVersion != "" {
		args = append(args, "--compiler-version", input.CompilerVersion)
	}
	if constructorArgs := strings.TrimPrefix(deployment.ConstructorArgs, "0x"); constructorArgs != "" {
		args = append(args, "--constructor-args", constructorArgs)
	}
	return args
}

// interpretForgeOutput decides the outcome from forge's output. Forge exits
// non-zero for contracts that are already verified.
func interpretForgeOutput(output string, runErr error) error {
	lower := strings.ToLower(output)
	if strings.Contains(lower, "already verified") {
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("forge verify-contract failed: %s", strings.TrimSpace(output))
	}
	if strings.Contains(output, "Contract successfully verified") || strings.Contains(output, "Pass - Verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", strings.TrimSpace(output))
}

func runForgeCombined(ctx context.Context, dir string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func runForgePTY(ctx context.Context, dir string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir

	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var buf bytes.Buffer
	// reading a pty returns EIO once the child exits
	_, _ = io.Copy(io.MultiWriter(os.Stderr, &buf), ptyFile)
	err = cmd.Wait()
	return buf.String(), err
}

// redact hides secret in args for logging
func redact(args []string, secret string) []string {
	if secret == "" {
		return args
	}
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == secret {
			arg = "***"
		}
		out[i] = arg
	}
	return out
}
