package usecase

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ManageNode handles local node management operations
type ManageNode struct {
	config   *config.RuntimeConfig
	manager  NodeManager
	progress ProgressSink
}

// NewManageNode creates a new node management use case
func NewManageNode(cfg *config.RuntimeConfig, manager NodeManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		config:   cfg,
		manager:  manager,
		progress: progress,
	}
}

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string // start, stop, restart, status, logs
	Name      string
	Port      string
	ChainID   uint64
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string
	Instance  *domain.NodeInstance
	Status    *domain.NodeStatus
	Success   bool
	Message   string
}

// Instance builds the node instance for params, filling the port and chain id
// from the localhost network when they are not given.
func (m *ManageNode) Instance(params ManageNodeParams) *domain.NodeInstance {
	instance := &domain.NodeInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
	}
	if instance.Name == "" {
		instance.Name = "localhost"
	}

	if entry, ok := m.config.Project.Networks[instance.Name]; ok {
		if instance.Port == "" {
			if u, err := url.Parse(entry.URL); err == nil {
				instance.Port = u.Port()
			}
		}
		if instance.ChainID == 0 {
			instance.ChainID = entry.ChainID
		}
	}
	if instance.Port == "" {
		instance.Port = "8545"
	}
	if instance.ChainID == 0 {
		instance.ChainID = 31337
	}
	return instance
}

// Execute performs the node management operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance := m.Instance(params)

	switch params.Operation {
	case "start":
		return m.start(ctx, instance)
	case "stop":
		return m.stop(ctx, instance)
	case "restart":
		return m.restart(ctx, instance)
	case "status":
		return m.status(ctx, instance)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

// StreamLogs writes the node log to w until ctx is done
func (m *ManageNode) StreamLogs(ctx context.Context, params ManageNodeParams, w io.Writer) error {
	return m.manager.StreamLogs(ctx, m.Instance(params), w)
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Starting local node '%s' on port %s...", instance.Name, instance.Port))

	// Check if already running
	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.manager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageNodeResult{
		Operation: "start",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Node '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Stopping node '%s'...", instance.Name))

	status, err := m.manager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageNodeResult{
			Operation: "stop",
			Instance:  instance,
			Success:   true,
			Message:   fmt.Sprintf("Node '%s' is not running", instance.Name),
		}, nil
	}

	if err := m.manager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop node: %w", err)
	}

	return &ManageNodeResult{
		Operation: "stop",
		Instance:  instance,
		Success:   true,
		Message:   "Node stopped",
	}, nil
}

func (m *ManageNode) restart(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Restarting node '%s'...", instance.Name))

	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.manager.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop node: %w", err)
		}
	}

	if err := m.manager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after restart: %w", err)
	}

	return &ManageNodeResult{
		Operation: "restart",
		Instance:  instance,
		Status:    status,
		Success:   true,
		Message:   fmt.Sprintf("Node '%s' restarted with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) status(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.manager.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &ManageNodeResult{
		Operation: "status",
		Instance:  instance,
		Status:    status,
		Success:   true,
	}, nil
}
