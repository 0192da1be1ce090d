package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/domain/models"
)

// Etherscan result strings
const (
	resultPending = "Pending in queue"
	resultPass    = "Pass - Verified"
	resultNoCode  = "Unable to locate ContractCode"
)

// EtherscanClient talks to the Etherscan v2 multichain API
type EtherscanClient struct {
	client       *http.Client
	apiKey       string
	apiURL       string
	pollInterval time.Duration
	attempts     int
	log          *slog.Logger
}

// NewEtherscanClient creates a client from the [verify] settings. An empty
// APIURL falls back to the network's explorer API.
func NewEtherscanClient(cfg config.VerifyConfig, log *slog.Logger) *EtherscanClient {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = config.DefaultVerifyAttempts
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = config.DefaultVerifyPollInterval
	}
	return &EtherscanClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:       cfg.APIKey,
		apiURL:       cfg.APIURL,
		pollInterval: poll,
		attempts:     attempts,
		log:          log.With("component", "etherscan"),
	}
}

// SubmitParams is a verifysourcecode request
type SubmitParams struct {
	ChainID         uint64
	Address         string
	Input           *models.VerificationInput
	ConstructorArgs string
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Verify submits the source and polls until the explorer decides
func (e *EtherscanClient) Verify(ctx context.Context, network *config.Network, params SubmitParams) (*models.VerificationInfo, error) {
	info := &models.VerificationInfo{
		Verifier: string(config.VerifierEtherscan),
		URL:      explorerCodeURL(network, params.Address),
	}

	guid, already, err := e.submitWithRetry(ctx, network, params)
	if err != nil {
		return info, err
	}
	if already {
		info.Status = models.VerificationStatusVerified
		return info, nil
	}
	info.GUID = guid
	e.log.Debug("verification submitted", "address", params.Address, "guid", guid)

	for attempt := 0; attempt < e.attempts; attempt++ {
		if err := sleep(ctx, e.pollInterval); err != nil {
			return info, err
		}

		resp, err := e.CheckStatus(ctx, network, guid)
		if err != nil {
			return info, err
		}
		switch {
		case strings.HasPrefix(resp.Result, resultPending):
			e.log.Debug("verification pending", "guid", guid, "attempt", attempt+1)
			continue
		case resp.Result == resultPass, isAlreadyVerified(resp.Result):
			info.Status = models.VerificationStatusVerified
			return info, nil
		default:
			return info, fmt.Errorf("explorer rejected source: %s", resp.Result)
		}
	}
	info.Status = models.VerificationStatusPending
	return info, fmt.Errorf("verification %s still pending after %d checks", guid, e.attempts)
}

// submitWithRetry resubmits while the explorer has not indexed the bytecode yet
func (e *EtherscanClient) submitWithRetry(ctx context.Context, network *config.Network, params SubmitParams) (string, bool, error) {
	for attempt := 0; ; attempt++ {
		resp, err := e.Submit(ctx, network, params)
		if err != nil {
			return "", false, err
		}
		if resp.Status == "1" {
			return resp.Result, false, nil
		}
		if isAlreadyVerified(resp.Result) {
			return "", true, nil
		}
		if !strings.Contains(resp.Result, resultNoCode) || attempt+1 >= e.attempts {
			return "", false, fmt.Errorf("verification submission failed: %s", resp.Result)
		}

		e.log.Debug("explorer has not indexed the contract yet", "address", params.Address, "attempt", attempt+1)
		if err := sleep(ctx, e.pollInterval); err != nil {
			return "", false, err
		}
	}
}

// Submit sends a single verifysourcecode request
func (e *EtherscanClient) Submit(ctx context.Context, network *config.Network, params SubmitParams) (*etherscanResponse, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("no explorer API key configured")
	}

	data := url.Values{}
	data.Set("apikey", e.apiKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("contractaddress", params.Address)
	data.Set("sourceCode", string(params.Input.StandardJSON))
	data.Set("codeformat", "solidity-standard-json-input")
	data.Set("contractname", params.Input.ContractIdentifier)
	data.Set("compilerversion", compilerVersion(params.Input.CompilerVersion))
	if args := strings.TrimPrefix(params.ConstructorArgs, "0x"); args != "" {
		data.Set("constructorArguements", args) // Note: Etherscan typo
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(network, params.ChainID, nil), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// CheckStatus checks the status of a pending verification
func (e *EtherscanClient) CheckStatus(ctx context.Context, network *config.Network, guid string) (*etherscanResponse, error) {
	query := url.Values{}
	query.Set("apikey", e.apiKey)
	query.Set("module", "contract")
	query.Set("action", "checkverifystatus")
	query.Set("guid", guid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint(network, network.ChainID, query), nil)
	if err != nil {
		return nil, err
	}
	return e.do(req)
}

func (e *EtherscanClient) endpoint(network *config.Network, chainID uint64, query url.Values) string {
	base := e.apiURL
	if base == "" {
		base = network.ExplorerAPIURL
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("chainid", strconv.FormatUint(chainID, 10))

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query.Encode()
}

func (e *EtherscanClient) do(req *http.Request) (*etherscanResponse, error) {
	resp, err := e.client.Do(req) //nolint:gosec // URL is constructed from configured explorer endpoint
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned HTTP %d", resp.StatusCode)
	}

	var result etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

func isAlreadyVerified(result string) bool {
	lower := strings.ToLower(result)
	return strings.Contains(lower, "already verified")
}

// compilerVersion prefixes the solc long version with "v" as Etherscan expects
func compilerVersion(version string) string {
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

func explorerCodeURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
