package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

func testForgeVerifier(run forgeRunner) *ForgeVerifier {
	v := NewForgeVerifier("/project", "secret-key", false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.run = run
	return v
}

func forgeFixture() (*config.Network, *models.Deployment, *models.VerificationInput) {
	network := &config.Network{
		Name:           "sepolia",
		ChainID:        11155111,
		ExplorerURL:    "https://sepolia.etherscan.io",
		ExplorerAPIURL: "https://api.etherscan.io/v2/api",
	}
	deployment := &models.Deployment{
		ContractName:    "FundMe",
		Address:         "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ConstructorArgs: "0x000000000000000000000000694aa1769357215de4fac081bf1f309adc325306",
	}
	input := &models.VerificationInput{
		ContractIdentifier: "src/FundMe.sol:FundMe",
		CompilerVersion:    "0.8.19+commit.7dd6d404",
	}
	return network, deployment, input
}

func TestForgeVerifier_BuildArgs(t *testing.T) {
	network, deployment, input := forgeFixture()
	args := testForgeVerifier(nil).buildArgs(network, deployment, input)

	assert.Equal(t, []string{
		"verify-contract",
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"src/FundMe.sol:FundMe",
		"--chain-id", "11155111",
		"--watch",
		"--verifier-url", "https://api.etherscan.io/v2/api",
		"--etherscan-api-key", "secret-key",
		"--compiler-version", "0.8.19+commit.7dd6d404",
		"--constructor-args", "000000000000000000000000694aa1769357215de4fac081bf1f309adc325306",
	}, args)
	assert.NotContains(t, redact(args, "secret-key"), "secret-key")
}

func TestForgeVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	network, deployment, input := forgeFixture()

	tests := []struct {
		name    string
		output  string
		runErr  error
		wantErr string
	}{
		{name: "verified", output: "Submitted contract for verification\nContract successfully verified"},
		{name: "already verified exits non-zero", output: "Contract [src/FundMe.sol:FundMe] is already verified. Skipping verification.", runErr: errors.New("exit status 1")},
		{name: "failure", output: "Error: Fail - Unable to verify", runErr: errors.New("exit status 1"), wantErr: "Fail - Unable to verify"},
		{name: "unclear", output: "something else", wantErr: "unclear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDir string
			v := testForgeVerifier(func(_ context.Context, dir string, args []string) (string, error) {
				gotDir = dir
				return tt.output, tt.runErr
			})

			info, err := v.Verify(ctx, network, deployment, input)
			assert.Equal(t, "/project", gotDir)
			require.NotNil(t, info)
			assert.Equal(t, "forge", info.Verifier)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.VerificationStatusVerified, info.Status)
			assert.Equal(t, "https://sepolia.etherscan.io/address/"+deployment.Address+"#code", info.URL)
		})
	}
}
