package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Artifact is a compiled contract loaded from the build output
type Artifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"` // e.g., "src/FundMe.sol"
	Path             string          `json:"path"`       // artifact file on disk
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`
	LinkReferences   map[string]any  `json:"linkReferences,omitempty"`
	CompilerVersion  string          `json:"compilerVersion"`
}

// Identifier returns the fully qualified "path:Name" form used by verifiers
func (a *Artifact) Identifier() string {
	return fmt.Sprintf("%s:%s", a.SourceName, a.ContractName)
}

// IsLinked reports whether the creation code has no unresolved library placeholders
func (a *Artifact) IsLinked() bool {
	return len(a.LinkReferences) == 0 && !strings.Contains(a.Bytecode, "__$")
}

// VerificationInput is what an explorer needs to match source to bytecode
type VerificationInput struct {
	ContractIdentifier string
	CompilerVersion    string
	StandardJSON       json.RawMessage
}
