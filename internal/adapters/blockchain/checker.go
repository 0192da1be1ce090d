package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// CheckDeploymentExists checks that code is deployed at address. A local node
// restarted since the last deploy leaves stale records behind.
func (c *Clients) CheckDeploymentExists(ctx context.Context, network *config.Network, address string) (exists bool, reason string, err error) {
	if !common.IsHexAddress(address) {
		return false, fmt.Sprintf("invalid address %q", address), nil
	}

	backend, err := c.Backend(ctx, network)
	if err != nil {
		return false, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := backend.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Sprintf("failed to check code: %v", err), nil
	}

	// If no code at address, contract doesn't exist
	if len(code) == 0 {
		return false, "no code at address", nil
	}

	return true, "", nil
}
