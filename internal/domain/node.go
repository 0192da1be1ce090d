package domain

// NodeInstance represents a local anvil node backing a development network
type NodeInstance struct {
	Name    string `json:"name"`
	Port    string `json:"port"`
	ChainID uint64 `json:"chainId,omitempty"`
	PidFile string `json:"pidFile"`
	LogFile string `json:"logFile"`
}

// NodeStatus represents the status of a local node
type NodeStatus struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid,omitempty"`
	RPCURL     string `json:"rpcUrl,omitempty"`
	LogFile    string `json:"logFile"`
	RPCHealthy bool   `json:"rpcHealthy"`
	ChainID    uint64 `json:"chainId,omitempty"`
	Block      uint64 `json:"block,omitempty"`
	Error      string `json:"error,omitempty"`
}
