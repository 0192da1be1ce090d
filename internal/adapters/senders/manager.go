package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DevPrivateKeys are the deterministic keys a local anvil or hardhat node
// funds at startup ("test test ... junk" mnemonic). They are only used on
// development networks that configure no accounts.
var DevPrivateKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", // 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", // 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a", // 0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6", // 0x90F79bf6EB2c4f870365E785982E1f101E93b906
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a", // 0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba", // 0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc
	"92db14e403b83dfe3df233f83dfa3a0d7096f21ca9b0d6d6b8d88b2b4ec1564e", // 0x976EA74026E726554dB657fA54763abd0C3a0aa9
	"4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356", // 0x14dC79964da2C08b23698B3D3cc7Ca32193d9955
	"dbda1821b80551c9d65939329250298aa3472ba22feea921c0cf5d620ea67b97", // 0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f
	"2a871d0798f97d79848a013d4936a73bf4cc922c825d33c1cf7073dff6d409c6", // 0xa0Ee7A142d267C1f36714E4a8F75612F20a79720
}

var privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// Service resolves named accounts to addresses and signing keys
type Service struct {
	project *config.ProjectConfig

	mu   sync.Mutex
	keys map[string]*ecdsa.PrivateKey // by hex key, parsed once
}

// NewService creates a new sender service
func NewService(cfg *config.RuntimeConfig) *Service {
	return &Service{
		project: cfg.Project,
		keys:    make(map[string]*ecdsa.PrivateKey),
	}
}

// account is a resolved reference: always an address, a key when we can sign
type account struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// ResolveAccount returns the address behind a named account
func (s *Service) ResolveAccount(ctx context.Context, network *config.Network, name string) (common.Address, error) {
	acct, err := s.resolve(network, name)
	if err != nil {
		return common.Address{}, err
	}
	return acct.address, nil
}

// Transactor returns signing options for a named account on network
func (s *Service) Transactor(ctx context.Context, network *config.Network, name string) (*bind.TransactOpts, error) {
	acct, err := s.resolve(network, name)
	if err != nil {
		return nil, err
	}
	if acct.key == nil {
		return nil, fmt.Errorf("%w: no private key for %s (%s) on %s", domain.ErrUnknownAccount, name, acct.address.Hex(), network.Name)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(acct.key, new(big.Int).SetUint64(network.ChainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for %s: %w", name, err)
	}
	opts.Context = ctx
	return opts, nil
}

// resolve follows a name through [named_accounts] to an index, key or address.
// Names that are not configured are treated as references themselves.
func (s *Service) resolve(network *config.Network, name string) (*account, error) {
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	ref := name
	if named, ok := s.project.NamedAccounts[name]; ok {
		r, ok := named.For(network.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no account on %s", domain.ErrUnknownAccount, name, network.Name)
		}
		ref = r
	}
	ref = strings.TrimSpace(ref)

	switch {
	case isIndex(ref):
		index, _ := strconv.Atoi(ref)
		keys := s.networkKeys(network)
		if index >= len(keys) {
			return nil, fmt.Errorf("%w: %s is account %d but %s has %d accounts", domain.ErrUnknownAccount, name, index, network.Name, len(keys))
		}
		return s.fromKey(keys[index])

	case privateKeyPattern.MatchString(ref):
		return s.fromKey(ref)

	case common.IsHexAddress(ref):
		address := common.HexToAddress(ref)
		// an address we hold a key for can still sign
		for _, key := range s.networkKeys(network) {
			acct, err := s.fromKey(key)
			if err == nil && acct.address == address {
				return acct, nil
			}
		}
		return &account{address: address}, nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, name)
	}
}

// networkKeys returns the configured keys, or the dev keys on development
// networks without configured accounts.
func (s *Service) networkKeys(network *config.Network) []string {
	if len(network.Accounts) > 0 {
		return network.Accounts
	}
	if network.Development || s.project.IsDevelopment(network.Name) {
		return DevPrivateKeys
	}
	return nil
}

func (s *Service) fromKey(hexKey string) (*account, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")

	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keys[hexKey]
	if !ok {
		var err error
		if key, err = crypto.HexToECDSA(hexKey); err != nil {
			// never echo the key
			return nil, fmt.Errorf("%w: invalid private key", domain.ErrUnknownAccount)
		}
		s.keys[hexKey] = key
	}
	return &account{address: crypto.PubkeyToAddress(key.PublicKey), key: key}, nil
}

func isIndex(ref string) bool {
	if ref == "" || len(ref) > 4 {
		return false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var _ usecase.AccountResolver = (*Service)(nil)
