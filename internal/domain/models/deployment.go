package models

import (
	"encoding/json"
	"time"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusPending    VerificationStatus = "PENDING"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
	VerificationStatusSkipped    VerificationStatus = "SKIPPED"
)

// Deployment is the record stored at deployments/<network>/<ContractName>.json.
// Only the most recent deployment of a contract on a network is kept.
type Deployment struct {
	ContractName    string          `json:"contractName"`
	Network         string          `json:"network"`
	ChainID         uint64          `json:"chainId"`
	Address         string          `json:"address"`
	Deployer        string          `json:"deployer"`
	ABI             json.RawMessage `json:"abi"`
	Args            []string        `json:"args"`
	ConstructorArgs string          `json:"constructorArgs,omitempty"` // ABI encoded, hex
	TransactionHash string          `json:"transactionHash"`
	Receipt         *Receipt        `json:"receipt,omitempty"`
	Confirmations   uint64          `json:"confirmations"`
	NumDeployments  int             `json:"numDeployments"`
	Bytecode        string          `json:"bytecode"`

	// Contract artifact information
	Artifact ArtifactInfo `json:"artifact"`

	// Verification information
	Verification VerificationInfo `json:"verification"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Receipt is the subset of the transaction receipt kept with a deployment
type Receipt struct {
	BlockNumber       uint64 `json:"blockNumber"`
	BlockHash         string `json:"blockHash"`
	GasUsed           uint64 `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
	Status            uint64 `json:"status"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path"`            // e.g., "src/FundMe.sol:FundMe"
	CompilerVersion string `json:"compilerVersion"` // e.g., "0.8.19+commit.7dd6d404"
}

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status     VerificationStatus `json:"status"`
	Verifier   string             `json:"verifier,omitempty"`
	URL        string             `json:"url,omitempty"`
	GUID       string             `json:"guid,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	VerifiedAt *time.Time         `json:"verifiedAt,omitempty"`
}

// IsVerified reports whether the explorer accepted the source
func (d *Deployment) IsVerified() bool {
	return d.Verification.Status == VerificationStatusVerified
}

// DeployRequest describes a single contract deployment.
type DeployRequest struct {
	ContractName string
	// From is a named account such as "deployer"
	From              string
	Args              []any
	Log               bool
	WaitConfirmations uint64
}
