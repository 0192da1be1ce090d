package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the RPC endpoint reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrUnsupportedNetwork is returned when no price feed is configured for a chain
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrMockNotDeployed is returned on development networks before the mock price feed exists
	ErrMockNotDeployed = errors.New("mock price feed not deployed")

	// ErrUnknownAccount is returned when a named account cannot be resolved
	ErrUnknownAccount = errors.New("unknown account")

	// ErrContractNotFound is returned when a compiled artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrReverted is returned when a call or transaction reverts
	ErrReverted = errors.New("execution reverted")

	// ErrNotOwner is returned when an owner-only function is called by another account
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrInsufficientFunds is returned when fund() is called below the minimum contribution
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrAborted is returned when the operator declines a confirmation prompt
	ErrAborted = errors.New("aborted")
)

// UnsupportedChainError is returned when a non-development network has no
// price feed entry in the network config.
type UnsupportedChainError struct {
	Network string
	ChainID uint64
}

func (e UnsupportedChainError) Error() string {
	return fmt.Sprintf("no price feed configured for network %s (chain %d)", e.Network, e.ChainID)
}

func (e UnsupportedChainError) Unwrap() error {
	return ErrUnsupportedNetwork
}

// DeploymentNotFoundError is returned when no deployment record exists for a
// contract on a network. Suggestions holds close matches for typos.
type DeploymentNotFoundError struct {
	Contract    string
	Network     string
	Suggestions []string
}

func (e DeploymentNotFoundError) Error() string {
	msg := fmt.Sprintf("no deployment of %s found on %s", e.Contract, e.Network)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e DeploymentNotFoundError) Unwrap() error {
	return ErrNotFound
}

// RevertError describes a reverted call. Exactly one of Reason, ErrorName
// or PanicCode is set when the revert data could be decoded.
type RevertError struct {
	Reason    string
	ErrorName string
	PanicCode *big.Int
	Data      []byte

	// Kind classifies the revert (ErrNotOwner, ErrInsufficientFunds) and may be nil
	Kind error
}

func (e *RevertError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	case e.ErrorName != "":
		return fmt.Sprintf("execution reverted: custom error %s", e.ErrorName)
	case e.PanicCode != nil:
		return fmt.Sprintf("execution reverted: panic 0x%x (%s)", e.PanicCode, PanicReason(e.PanicCode))
	default:
		return "execution reverted"
	}
}

func (e *RevertError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrReverted}
	}
	return []error{ErrReverted, e.Kind}
}

// PanicReason maps Solidity panic codes to a short description.
func PanicReason(code *big.Int) string {
	if code == nil || !code.IsUint64() {
		return "unknown panic"
	}
	switch code.Uint64() {
	case 0x01:
		return "assertion failed"
	case 0x11:
		return "arithmetic overflow or underflow"
	case 0x12:
		return "division by zero"
	case 0x21:
		return "invalid enum value"
	case 0x22:
		return "invalid storage byte array"
	case 0x31:
		return "pop on empty array"
	case 0x32:
		return "array index out of bounds"
	case 0x41:
		return "out of memory"
	case 0x51:
		return "call to zero-initialized function"
	default:
		return "unknown panic"
	}
}
