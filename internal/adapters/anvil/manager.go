package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	// DefaultPort is the port anvil listens on when none is configured
	DefaultPort = "8545"
	// DefaultReadyTimeout bounds how long Start waits for the RPC to answer
	DefaultReadyTimeout = 10 * time.Second
)

// Manager runs anvil as a background process tracked by pid and log files
// under the project data directory
type Manager struct {
	dataDir      string
	binary       string
	readyTimeout time.Duration
	log          *slog.Logger
}

// NewManager creates a new anvil manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dataDir:      cfg.DataDir,
		binary:       "anvil",
		readyTimeout: DefaultReadyTimeout,
		log:          log.With("component", "anvil"),
	}
}

// Start launches anvil and waits until its RPC responds
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("node '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	args := buildAnvilArgs(instance)
	m.log.Debug("starting anvil", "args", args)

	// not bound to ctx, the node outlives the command
	cmd := exec.Command(m.binary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	if err := m.waitReady(ctx, instance, exited); err != nil {
		_ = cmd.Process.Kill()
		_ = os.Remove(instance.PidFile)
		return err
	}
	return nil
}

// waitReady polls the RPC until it answers, the process exits or the timeout passes
func (m *Manager) waitReady(ctx context.Context, instance *domain.NodeInstance, exited <-chan error) error {
	ctx, cancel := context.WithTimeout(ctx, m.readyTimeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, _, err := checkRPC(ctx, rpcURL(instance)); err == nil {
			return nil
		}
		select {
		case err := <-exited:
			return fmt.Errorf("anvil exited during startup (%v), see %s", err, instance.LogFile)
		case <-ctx.Done():
			return fmt.Errorf("anvil did not answer on %s: %w", rpcURL(instance), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Stop sends SIGTERM and waits for the process to exit
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	if !m.isRunning(instance) {
		_ = os.Remove(instance.PidFile)
		return nil
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// the node is not our child once the starting command exits, so poll
	deadline := time.Now().Add(5 * time.Second)
	for processAlive(process) && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if processAlive(process) {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports the process state and, when running, the RPC health
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)
	status := &domain.NodeStatus{
		LogFile: instance.LogFile,
		RPCURL:  rpcURL(instance),
	}

	if !m.isRunning(instance) {
		return status, nil
	}
	status.Running = true
	status.PID, _ = readPidFile(instance.PidFile)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	chainID, block, err := checkRPC(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	status.Block = block
	return status, nil
}

// StreamLogs follows the log file until ctx is done
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	if _, err := os.Stat(instance.LogFile); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}

	cmd := exec.CommandContext(ctx, "tail", "-n", "+1", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// setFilePaths fills in pid and log paths under the data directory
func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = "localhost"
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.dataDir, fmt.Sprintf("node-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.dataDir, fmt.Sprintf("node-%s.log", instance.Name))
	}
}

// isRunning checks if this instance is running by checking its PID file
func (m *Manager) isRunning(instance *domain.NodeInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return processAlive(process)
}

func processAlive(process *os.Process) bool {
	return process.Signal(syscall.Signal(0)) == nil
}

func buildAnvilArgs(instance *domain.NodeInstance) []string {
	args := []string{"--port", instance.Port, "--host", "127.0.0.1"}
	if instance.ChainID != 0 {
		args = append(args, "--chain-id", strconv.FormatUint(instance.ChainID, 10))
	}
	return args
}

func rpcURL(instance *domain.NodeInstance) string {
	return "http://127.0.0.1:" + instance.Port
}

// checkRPC returns the chain id and head block of the node at url
func checkRPC(ctx context.Context, url string) (uint64, uint64, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("RPC not responding: %w", err)
	}
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("RPC not responding: %w", err)
	}
	return chainID.Uint64(), block, nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.NodeManager = (*Manager)(nil)
