package blockchain_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// storeArtifact's creation code copies a 10 byte runtime that returns 42.
// Constructor arguments are appended after it and ignored.
var storeArtifact = &models.Artifact{
	ContractName: "Store",
	SourceName:   "src/Store.sol",
	ABI:          json.RawMessage(`[{"type":"constructor","inputs":[{"name":"feed","type":"address"}],"stateMutability":"nonpayable"}]`),
	Bytecode:     "0x600a600c600039600a6000f3602a60005260206000f3",
}

const simulatedChainID = 1337

type simulatedChain struct {
	backend *simulated.Backend
	key     *ecdsa.PrivateKey
	network *config.Network
	clients *blockchain.Clients
}

// newSimulatedChain starts an in-process chain that mines a block every few
// milliseconds until the test ends.
func newSimulatedChain(t *testing.T) *simulatedChain {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	funds := new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))
	backend := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: funds},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		backend.Close()
	})

	client := backend.Client()
	return &simulatedChain{
		backend: backend,
		key:     key,
		network: &config.Network{Name: "simulated", ChainID: simulatedChainID, RPCURL: "simulated://"},
		clients: blockchain.NewClientsWithDialer(func(ctx context.Context, rpcURL string) (blockchain.Backend, error) {
			return client, nil
		}),
	}
}

func (c *simulatedChain) transactor(t *testing.T) *bind.TransactOpts {
	t.Helper()
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, big.NewInt(simulatedChainID))
	require.NoError(t, err)
	return opts
}

func TestDeployer_Deploy(t *testing.T) {
	chain := newSimulatedChain(t)
	deployer := blockchain.NewDeployer(chain.clients, discardLogger).WithPollInterval(10 * time.Millisecond)
	feed := common.HexToAddress("0x694AA1769357215DE4FAC081bf1f309aDC325306")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("deploys and waits for confirmations", func(t *testing.T) {
		deployment, err := deployer.Deploy(ctx, chain.network, chain.transactor(t), storeArtifact, []any{feed}, 3)
		require.NoError(t, err)

		require.True(t, common.IsHexAddress(deployment.Address))
		require.NotNil(t, deployment.Receipt)
		assert.Equal(t, types.ReceiptStatusSuccessful, deployment.Receipt.Status)
		assert.NotZero(t, deployment.Receipt.GasUsed)
		assert.Equal(t, "0x000000000000000000000000694aa1769357215de4fac081bf1f309adc325306", deployment.ConstructorArgs)

		head, err := chain.backend.Client().BlockNumber(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, head, deployment.Receipt.BlockNumber+2)

		exists, reason, err := chain.clients.CheckDeploymentExists(ctx, chain.network, deployment.Address)
		require.NoError(t, err)
		assert.True(t, exists, reason)
	})

	t.Run("argument mismatch fails before sending", func(t *testing.T) {
		_, err := deployer.Deploy(ctx, chain.network, chain.transactor(t), storeArtifact, []any{"not an address"}, 1)
		assert.ErrorContains(t, err, "constructor args")
	})

	t.Run("unlinked bytecode is rejected", func(t *testing.T) {
		unlinked := *storeArtifact
		unlinked.Bytecode = "0x6080__$1234567890abcdef$__"
		_, err := deployer.Deploy(ctx, chain.network, chain.transactor(t), &unlinked, []any{feed}, 1)
		assert.ErrorContains(t, err, "unlinked")
	})

	t.Run("send errors are returned as is", func(t *testing.T) {
		opts := chain.transactor(t)
		sendErr := errors.New("signer unavailable")
		opts.Signer = func(common.Address, *types.Transaction) (*types.Transaction, error) {
			return nil, sendErr
		}
		_, err := deployer.Deploy(ctx, chain.network, opts, storeArtifact, []any{feed}, 1)
		assert.ErrorIs(t, err, sendErr)
	})
}

func TestClients(t *testing.T) {
	chain := newSimulatedChain(t)
	ctx := context.Background()

	t.Run("chain id mismatch", func(t *testing.T) {
		network := &config.Network{Name: "sepolia", ChainID: 11155111, RPCURL: "simulated://"}
		_, err := chain.clients.Backend(ctx, network)
		assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
	})

	t.Run("balance", func(t *testing.T) {
		balance, err := chain.clients.BalanceAt(ctx, chain.network, crypto.PubkeyToAddress(chain.key.PublicKey))
		require.NoError(t, err)
		assert.Positive(t, balance.Sign())
	})

	t.Run("no code at an empty address", func(t *testing.T) {
		exists, reason, err := chain.clients.CheckDeploymentExists(ctx, chain.network, common.Address{}.Hex())
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, "no code at address", reason)
	})

	t.Run("missing rpc url", func(t *testing.T) {
		_, err := chain.clients.Backend(ctx, &config.Network{Name: "nowhere"})
		assert.Error(t, err)
	})
}
