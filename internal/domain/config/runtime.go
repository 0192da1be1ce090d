package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if the network could not be resolved

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Resolved project configuration (fundme.toml)
	Project *ProjectConfig
}

// Network represents a resolved network descriptor
type Network struct {
	Name               string   `json:"name"`
	ChainID            uint64   `json:"chainId"`
	RPCURL             string   `json:"rpcUrl"`
	ExplorerURL        string   `json:"explorerUrl,omitempty"`
	ExplorerAPIURL     string   `json:"explorerApiUrl,omitempty"`
	BlockConfirmations uint64   `json:"blockConfirmations,omitempty"`
	Accounts           []string `json:"-"`
	Development        bool     `json:"development"`
}

// Confirmations returns the number of blocks to wait for, defaulting to 1.
func (n *Network) Confirmations() uint64 {
	if n == nil || n.BlockConfirmations == 0 {
		return 1
	}
	return n.BlockConfirmations
}
