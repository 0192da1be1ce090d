package senders_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/adapters/senders"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

var (
	account0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	account1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func newService(mutate func(*config.ProjectConfig)) *senders.Service {
	project := config.DefaultProjectConfig()
	if mutate != nil {
		mutate(project)
	}
	return senders.NewService(&config.RuntimeConfig{Project: project})
}

func TestService_DevelopmentNetwork(t *testing.T) {
	ctx := context.Background()
	network := &config.Network{Name: "localhost", ChainID: 31337, Development: true}
	svc := newService(nil)

	deployer, err := svc.ResolveAccount(ctx, network, "deployer")
	require.NoError(t, err)
	assert.Equal(t, account0, deployer)

	user, err := svc.ResolveAccount(ctx, network, "user")
	require.NoError(t, err)
	assert.Equal(t, account1, user)

	opts, err := svc.Transactor(ctx, network, "deployer")
	require.NoError(t, err)
	assert.Equal(t, account0, opts.From)
	assert.NotNil(t, opts.Signer)
	assert.Equal(t, ctx, opts.Context)
}

func TestService_ConfiguredAccounts(t *testing.T) {
	ctx := context.Background()
	svc := newService(func(p *config.ProjectConfig) {
		p.NamedAccounts["deployer"] = config.NamedAccount{Default: "0", PerNetwork: map[string]string{"sepolia": "1"}}
	})
	network := &config.Network{
		Name:    "sepolia",
		ChainID: 11155111,
		Accounts: []string{
			"0x" + senders.DevPrivateKeys[2],
			"0x" + senders.DevPrivateKeys[1],
		},
	}

	t.Run("per network index", func(t *testing.T) {
		addr, err := svc.ResolveAccount(ctx, network, "deployer")
		require.NoError(t, err)
		assert.Equal(t, account1, addr)
	})

	t.Run("transactor signs for the chain", func(t *testing.T) {
		opts, err := svc.Transactor(ctx, network, "deployer")
		require.NoError(t, err)
		assert.Equal(t, account1, opts.From)
	})

	t.Run("index out of range", func(t *testing.T) {
		svc := newService(func(p *config.ProjectConfig) {
			p.NamedAccounts["deployer"] = config.NamedAccount{Default: "5"}
		})
		_, err := svc.ResolveAccount(ctx, network, "deployer")
		assert.ErrorIs(t, err, domain.ErrUnknownAccount)
	})
}

func TestService_LiveNetworkWithoutAccounts(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	network := &config.Network{Name: "sepolia", ChainID: 11155111}

	// dev keys are never used on live networks
	_, err := svc.ResolveAccount(ctx, network, "deployer")
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestService_References(t *testing.T) {
	ctx := context.Background()
	network := &config.Network{Name: "localhost", ChainID: 31337, Development: true}

	t.Run("private key", func(t *testing.T) {
		svc := newService(func(p *config.ProjectConfig) {
			p.NamedAccounts["deployer"] = config.NamedAccount{Default: "0x" + senders.DevPrivateKeys[1]}
		})
		addr, err := svc.ResolveAccount(ctx, network, "deployer")
		require.NoError(t, err)
		assert.Equal(t, account1, addr)
	})

	t.Run("address with a known key can sign", func(t *testing.T) {
		svc := newService(nil)
		opts, err := svc.Transactor(ctx, network, account1.Hex())
		require.NoError(t, err)
		assert.Equal(t, account1, opts.From)
	})

	t.Run("address without a key resolves but cannot sign", func(t *testing.T) {
		svc := newService(nil)
		other := common.BigToAddress(big.NewInt(0xbeef))

		addr, err := svc.ResolveAccount(ctx, network, other.Hex())
		require.NoError(t, err)
		assert.Equal(t, other, addr)

		_, err = svc.Transactor(ctx, network, other.Hex())
		assert.ErrorIs(t, err, domain.ErrUnknownAccount)
	})

	t.Run("unknown name", func(t *testing.T) {
		svc := newService(nil)
		_, err := svc.ResolveAccount(ctx, network, "treasury")
		assert.ErrorIs(t, err, domain.ErrUnknownAccount)
	})

	t.Run("invalid key is not echoed", func(t *testing.T) {
		zeroKey := "0x" + strings.Repeat("0", 64)
		svc := newService(func(p *config.ProjectConfig) {
			p.NamedAccounts["deployer"] = config.NamedAccount{Default: zeroKey}
		})
		_, err := svc.ResolveAccount(ctx, network, "deployer")
		require.ErrorIs(t, err, domain.ErrUnknownAccount)
		assert.NotContains(t, err.Error(), zeroKey)
	})
}
