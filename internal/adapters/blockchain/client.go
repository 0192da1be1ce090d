package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Backend is the chain access the adapters need; *ethclient.Client satisfies it
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc opens a backend for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthClient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Clients keeps one connection per RPC URL, checked against the configured chain id
type Clients struct {
	dial DialFunc

	mu    sync.Mutex
	conns map[string]*conn
}

type conn struct {
	backend Backend
	chainID uint64
}

// NewClients creates a client pool dialing with ethclient
func NewClients() *Clients {
	return NewClientsWithDialer(dialEthClient)
}

// NewClientsWithDialer creates a client pool using dial
func NewClientsWithDialer(dial DialFunc) *Clients {
	return &Clients{
		dial:  dial,
		conns: make(map[string]*conn),
	}
}

// Backend returns the connection for network, dialing on first use
func (c *Clients) Backend(ctx context.Context, network *config.Network) (Backend, error) {
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("network has no rpc url")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cn, ok := c.conns[network.RPCURL]
	if !ok {
		backend, err := c.dial(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
		}
		chainID, err := backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain ID from %s: %w", network.Name, err)
		}
		cn = &conn{backend: backend, chainID: chainID.Uint64()}
		c.conns[network.RPCURL] = cn
	}

	if network.ChainID != 0 && cn.chainID != network.ChainID {
		return nil, fmt.Errorf("%w: %s expects chain %d, rpc reports %d", domain.ErrNetworkMismatch, network.Name, network.ChainID, cn.chainID)
	}
	return cn.backend, nil
}

// BalanceAt returns the latest balance of address
func (c *Clients) BalanceAt(ctx context.Context, network *config.Network, address common.Address) (*big.Int, error) {
	backend, err := c.Backend(ctx, network)
	if err != nil {
		return nil, err
	}
	balance, err := backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance of %s: %w", address.Hex(), err)
	}
	return balance, nil
}

var _ usecase.BalanceReader = (*Clients)(nil)
