package jobs

import (
	"fmt"

	"go.uber.org/zap"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	customsSweepJob *CustomsSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	submitCustomsHandler commands.SubmitCustomsCommandHandler,
	orders ports.OrderRepository,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		customsSweepJob: NewCustomsSweepJob(submitCustomsHandler, orders, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.customsSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start customs sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.customsSweepJob.Stop()
}
