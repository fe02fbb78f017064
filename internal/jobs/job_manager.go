package jobs

import (
	"fmt"

	"codorders/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	credentialSweepJob *CredentialSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(db *gorm.DB, qr ports.QRGenerator, logger *zap.Logger) *JobManager {
	return &JobManager{
		credentialSweepJob: NewCredentialSweepJob(db, qr, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.credentialSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start credential sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.credentialSweepJob.Stop()
}
