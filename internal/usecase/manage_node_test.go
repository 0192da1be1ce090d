package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

func TestManageNode_Instance(t *testing.T) {
	cfg := testRuntimeConfig(localhost())
	uc := usecase.NewManageNode(cfg, new(MockNodeManager), &MockProgressSink{})

	instance := uc.Instance(usecase.ManageNodeParams{})
	assert.Equal(t, "localhost", instance.Name)
	assert.Equal(t, "8545", instance.Port)
	assert.Equal(t, uint64(31337), instance.ChainID)

	instance = uc.Instance(usecase.ManageNodeParams{Name: "fork", Port: "9545", ChainID: 11155111})
	assert.Equal(t, "9545", instance.Port)
	assert.Equal(t, uint64(11155111), instance.ChainID)
}

func TestManageNode_Execute(t *testing.T) {
	ctx := context.Background()
	cfg := testRuntimeConfig(localhost())

	t.Run("start", func(t *testing.T) {
		manager := new(MockNodeManager)
		manager.On("GetStatus", ctx, mock.Anything).Return(&domain.NodeStatus{Running: false}, nil).Once()
		manager.On("Start", ctx, mock.Anything).Return(nil)
		manager.On("GetStatus", ctx, mock.Anything).Return(&domain.NodeStatus{Running: true, PID: 42}, nil)

		uc := usecase.NewManageNode(cfg, manager, &MockProgressSink{})
		result, err := uc.Execute(ctx, usecase.ManageNodeParams{Operation: "start"})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Node 'localhost' started with PID 42", result.Message)
	})

	t.Run("start when running", func(t *testing.T) {
		manager := new(MockNodeManager)
		manager.On("GetStatus", ctx, mock.Anything).Return(&domain.NodeStatus{Running: true, PID: 7}, nil)

		uc := usecase.NewManageNode(cfg, manager, &MockProgressSink{})
		_, err := uc.Execute(ctx, usecase.ManageNodeParams{Operation: "start"})
		assert.ErrorContains(t, err, "already running")
		manager.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})

	t.Run("stop when not running", func(t *testing.T) {
		manager := new(MockNodeManager)
		manager.On("GetStatus", ctx, mock.Anything).Return(nil, errors.New("no pid file"))

		uc := usecase.NewManageNode(cfg, manager, &MockProgressSink{})
		result, err := uc.Execute(ctx, usecase.ManageNodeParams{Operation: "stop"})
		require.NoError(t, err)
		assert.Equal(t, "Node 'localhost' is not running", result.Message)
		manager.AssertNotCalled(t, "Stop", mock.Anything, mock.Anything)
	})

	t.Run("restart", func(t *testing.T) {
		manager := new(MockNodeManager)
		manager.On("GetStatus", ctx, mock.Anything).Return(&domain.NodeStatus{Running: true, PID: 7}, nil).Once()
		manager.On("Stop", ctx, mock.Anything).Return(nil)
		manager.On("Start", ctx, mock.Anything).Return(nil)
		manager.On("GetStatus", ctx, mock.Anything).Return(&domain.NodeStatus{Running: true, PID: 8}, nil)

		uc := usecase.NewManageNode(cfg, manager, &MockProgressSink{})
		result, err := uc.Execute(ctx, usecase.ManageNodeParams{Operation: "restart"})
		require.NoError(t, err)
		assert.Equal(t, 8, result.Status.PID)
		manager.AssertExpectations(t)
	})

	t.Run("unknown operation", func(t *testing.T) {
		uc := usecase.NewManageNode(cfg, new(MockNodeManager), &MockProgressSink{})
		_, err := uc.Execute(ctx, usecase.ManageNodeParams{Operation: "pause"})
		assert.ErrorContains(t, err, "unknown operation")
	})

	t.Run("logs", func(t *testing.T) {
		manager := new(MockNodeManager)
		var buf bytes.Buffer
		manager.On("StreamLogs", ctx, mock.Anything, &buf).Return(nil)

		uc := usecase.NewManageNode(cfg, manager, &MockProgressSink{})
		require.NoError(t, uc.StreamLogs(ctx, usecase.ManageNodeParams{}, &buf))
		manager.AssertExpectations(t)
	})
}
