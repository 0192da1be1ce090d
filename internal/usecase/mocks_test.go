package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryDeployments is an in-memory DeploymentRepository keyed by network/contract
type memoryDeployments struct {
	mu      sync.Mutex
	records map[string]*models.Deployment
	saves   int
}

func newMemoryDeployments(records ...*models.Deployment) *memoryDeployments {
	m := &memoryDeployments{records: make(map[string]*models.Deployment)}
	for _, r := range records {
		m.records[r.Network+"/"+r.ContractName] = r
	}
	return m
}

func (m *memoryDeployments) Get(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.records[network+"/"+contractName]
	if !ok {
		return nil, domain.DeploymentNotFoundError{Contract: contractName, Network: network}
	}
	copied := *d
	return &copied, nil
}

func (m *memoryDeployments) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Deployment
	for _, d := range m.records {
		if network == "" || d.Network == network {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryDeployments) Save(ctx context.Context, deployment *models.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *deployment
	m.records[deployment.Network+"/"+deployment.ContractName] = &copied
	m.saves++
	return nil
}

func (m *memoryDeployments) Reset(ctx context.Context, network string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, d := range m.records {
		if d.Network == network {
			delete(m.records, key)
		}
	}
	return nil
}

// MockAccountResolver is a mock implementation of AccountResolver
type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) ResolveAccount(ctx context.Context, network *config.Network, name string) (common.Address, error) {
	args := m.Called(ctx, network, name)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *MockAccountResolver) Transactor(ctx context.Context, network *config.Network, name string) (*bind.TransactOpts, error) {
	args := m.Called(ctx, network, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bind.TransactOpts), args.Error(1)
}

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) Get(ctx context.Context, contractName string) (*models.Artifact, error) {
	args := m.Called(ctx, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) VerificationInput(ctx context.Context, artifact *models.Artifact) (*models.VerificationInput, error) {
	args := m.Called(ctx, artifact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationInput), args.Error(1)
}

// fakeDeployer hands out sequential addresses and records every call
type fakeDeployer struct {
	calls []deployCall
	err   error
	next  int
}

type deployCall struct {
	Contract      string
	From          common.Address
	Args          []any
	Confirmations uint64
}

func (f *fakeDeployer) Deploy(ctx context.Context, network *config.Network, opts *bind.TransactOpts, artifact *models.Artifact, args []any, confirmations uint64) (*models.Deployment, error) {
	f.calls = append(f.calls, deployCall{Contract: artifact.ContractName, From: opts.From, Args: args, Confirmations: confirmations})
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	return &models.Deployment{
		Address:         common.BigToAddress(big.NewInt(int64(0x1000 + f.next))).Hex(),
		TransactionHash: common.BigToHash(big.NewInt(int64(f.next))).Hex(),
		Receipt:         &models.Receipt{BlockNumber: uint64(f.next), GasUsed: 500000, Status: 1},
		Bytecode:        "0x6080",
	}, nil
}

// MockContractVerifier is a mock implementation of ContractVerifier
type MockContractVerifier struct {
	mock.Mock
}

func (m *MockContractVerifier) Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) (*models.VerificationInfo, error) {
	args := m.Called(ctx, network, deployment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationInfo), args.Error(1)
}

// MockDeploymentVerifier is a mock implementation of DeploymentVerifier
type MockDeploymentVerifier struct {
	mock.Mock
}

func (m *MockDeploymentVerifier) Verify(ctx context.Context, network *config.Network, deployment *models.Deployment) error {
	args := m.Called(ctx, network, deployment)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress messages
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) { m.errors = append(m.errors, message) }

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) Names() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) Resolve(ctx context.Context, networkName string) (*config.Network, error) {
	args := m.Called(ctx, networkName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// MockNodeManager is a mock implementation of NodeManager
type MockNodeManager struct {
	mock.Mock
}

func (m *MockNodeManager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockNodeManager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockNodeManager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	args := m.Called(ctx, instance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeStatus), args.Error(1)
}

func (m *MockNodeManager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	return m.Called(ctx, instance, writer).Error(0)
}

// simulatedFundMe is an in-memory FundMe that follows the contract's rules:
// fund() requires at least minimum wei, withdraw paths are owner only, and
// every sent transaction costs gasUsed * gasPrice.
type simulatedFundMe struct {
	address  common.Address
	feed     common.Address
	owner    common.Address
	minimum  *big.Int
	gasUsed  uint64
	gasPrice *big.Int

	balances *simulatedBalances
	funders  []common.Address
	funded   map[common.Address]*big.Int
	sent     int
}

func newSimulatedFundMe(owner, feed common.Address, balances *simulatedBalances) *simulatedFundMe {
	return &simulatedFundMe{
		address:  common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		feed:     feed,
		owner:    owner,
		minimum:  big.NewInt(25_000_000_000_000_000), // 50 USD at 2000 USD/ETH
		gasUsed:  50_000,
		gasPrice: big.NewInt(1_000_000_000),
		balances: balances,
		funded:   make(map[common.Address]*big.Int),
	}
}

func (f *simulatedFundMe) Address() common.Address { return f.address }

func (f *simulatedFundMe) PriceFeed(ctx context.Context) (common.Address, error) { return f.feed, nil }

func (f *simulatedFundMe) Owner(ctx context.Context) (common.Address, error) { return f.owner, nil }

func (f *simulatedFundMe) AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	if v, ok := f.funded[funder]; ok {
		return new(big.Int).Set(v), nil
	}
	return new(big.Int), nil
}

func (f *simulatedFundMe) Funder(ctx context.Context, index int64) (common.Address, error) {
	if index < 0 || index >= int64(len(f.funders)) {
		return common.Address{}, &domain.RevertError{PanicCode: big.NewInt(0x32)}
	}
	return f.funders[index], nil
}

func (f *simulatedFundMe) receipt() *models.TxReceipt {
	f.sent++
	return &models.TxReceipt{
		Hash:              common.BigToHash(big.NewInt(int64(f.sent))),
		GasUsed:           f.gasUsed,
		EffectiveGasPrice: f.gasPrice,
		Status:            1,
	}
}

func (f *simulatedFundMe) Fund(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*models.TxReceipt, error) {
	if amount.Cmp(f.minimum) < 0 {
		return nil, &domain.RevertError{Reason: "You need to spend more ETH!", Kind: domain.ErrInsufficientFunds}
	}
	r := f.receipt()
	f.balances.sub(opts.From, new(big.Int).Add(amount, r.GasCost()))
	f.balances.add(f.address, amount)
	if _, ok := f.funded[opts.From]; !ok {
		f.funded[opts.From] = new(big.Int)
	}
	f.funded[opts.From].Add(f.funded[opts.From], amount)
	f.funders = append(f.funders, opts.From)
	return r, nil
}

func (f *simulatedFundMe) withdraw(opts *bind.TransactOpts) (*models.TxReceipt, error) {
	if opts.From != f.owner {
		return nil, &domain.RevertError{ErrorName: "FundMe__NotOwner", Kind: domain.ErrNotOwner}
	}
	r := f.receipt()
	total := f.balances.get(f.address)
	f.balances.sub(f.address, total)
	f.balances.add(f.owner, total)
	f.balances.sub(f.owner, r.GasCost())
	for _, funder := range f.funders {
		f.funded[funder] = new(big.Int)
	}
	f.funders = nil
	return r, nil
}

func (f *simulatedFundMe) Withdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error) {
	return f.withdraw(opts)
}

func (f *simulatedFundMe) CheaperWithdraw(ctx context.Context, opts *bind.TransactOpts) (*models.TxReceipt, error) {
	return f.withdraw(opts)
}

type simulatedBalances struct {
	values map[common.Address]*big.Int
}

func newSimulatedBalances() *simulatedBalances {
	return &simulatedBalances{values: make(map[common.Address]*big.Int)}
}

func (b *simulatedBalances) get(addr common.Address) *big.Int {
	if v, ok := b.values[addr]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (b *simulatedBalances) add(addr common.Address, v *big.Int) {
	b.values[addr] = new(big.Int).Add(b.get(addr), v)
}

func (b *simulatedBalances) sub(addr common.Address, v *big.Int) {
	b.values[addr] = new(big.Int).Sub(b.get(addr), v)
}

func (b *simulatedBalances) BalanceAt(ctx context.Context, network *config.Network, address common.Address) (*big.Int, error) {
	return b.get(address), nil
}

// staticBinder always binds the same contract
type staticBinder struct {
	contract usecase.FundMeContract
	bound    []string
}

func (s *staticBinder) Bind(ctx context.Context, network *config.Network, deployment *models.Deployment) (usecase.FundMeContract, error) {
	s.bound = append(s.bound, deployment.Address)
	if s.contract == nil {
		return nil, fmt.Errorf("no contract")
	}
	return s.contract, nil
}
