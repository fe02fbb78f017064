// Package jobs provides scheduled background tasks for the order system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance operations.
//
// # Available Jobs
//
// 1. CredentialSweepJob - Runs hourly to retire delivery tokens whose
// rating window has expired and to remove their QR artifacts
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(db, qrGenerator, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep job uses the cron expression "0 0 * * * *" which means it
// runs at the top of every hour. Expired credentials carry no customer
// impact beyond a stale QR code, so hourly is frequent enough.
//
// # Error Handling
//
// - A failed sweep run is logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
