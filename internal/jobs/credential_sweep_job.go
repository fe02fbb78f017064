package jobs

import (
	"context"
	"time"

	"codorders/internal/core/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ratingWindow is how long a delivery token stays valid after the
// delivery outcome was confirmed, so the customer can still rate it.
const ratingWindow = 14 * 24 * time.Hour

// CredentialSweepJob retires delivery tokens that outlived their rating
// window. Tokens are normally cleared by the domain when an order is
// rated or reaches a terminal status; this job catches the delivered
// orders whose customers never rated them.
type CredentialSweepJob struct {
	db     *gorm.DB
	qr     ports.QRGenerator
	cron   *cron.Cron
	logger *zap.Logger
}

// NewCredentialSweepJob creates a job that sweeps expired delivery
// credentials once an hour.
func NewCredentialSweepJob(db *gorm.DB, qr ports.QRGenerator, logger *zap.Logger) *CredentialSweepJob {
	return &CredentialSweepJob{
		db:     db,
		qr:     qr,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With(zap.String("component", "credential_sweep_job")),
	}
}

// Start begins the sweep job, running at the top of every hour.
func (j *CredentialSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		if err := j.sweep(context.Background()); err != nil {
			j.logger.Error("credential sweep failed", zap.Error(err))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("credential sweep job started (running hourly)")
	return nil
}

// Stop stops the sweep job.
func (j *CredentialSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("credential sweep job stopped")
}

func (j *CredentialSweepJob) sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-ratingWindow)

	var tokens []string
	result := j.db.WithContext(ctx).
		Raw("SELECT delivery_token FROM orders WHERE delivery_token IS NOT NULL AND delivered_at IS NOT NULL AND delivered_at < ?", cutoff).
		Scan(&tokens)
	if result.Error != nil {
		return result.Error
	}

	for _, token := range tokens {
		update := j.db.WithContext(ctx).
			Exec("UPDATE orders SET delivery_token = NULL, version = version + 1 WHERE delivery_token = ?", token)
		if update.Error != nil {
			j.logger.Error("failed to retire delivery token", zap.Error(update.Error))
			continue
		}

		if err := j.qr.RemoveForToken(token); err != nil {
			j.logger.Warn("failed to remove qr artifact for retired token", zap.Error(err))
		}
	}

	if len(tokens) > 0 {
		j.logger.Info("retired expired delivery credentials", zap.Int("count", len(tokens)))
	}

	return nil
}
