package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/ports"

	"go.uber.org/zap"
)

const sideEffectTimeout = 10 * time.Second

// SideEffects performs the best-effort work that follows a committed state
// change: transition history records, sales platform synchronization and QR
// artifact management. Handlers dispatch these after commit, outside the
// transaction, so a slow or failing collaborator never blocks or rolls back
// an accepted status change. Failures are logged and swallowed.
type SideEffects struct {
	history  ports.HistoryRepository
	platform ports.PlatformGateway
	qr       ports.QRGenerator
	logger   *zap.Logger
}

// NewSideEffects creates the post-commit side effect dispatcher.
// The history repository must be an autocommit instance, not one bound to a
// unit of work.
func NewSideEffects(
	history ports.HistoryRepository,
	platform ports.PlatformGateway,
	qr ports.QRGenerator,
	logger *zap.Logger,
) *SideEffects {
	return &SideEffects{
		history:  history,
		platform: platform,
		qr:       qr,
		logger:   logger,
	}
}

// RecordTransition appends a transition record to the order history.
func (s *SideEffects) RecordTransition(rec order.TransitionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.history.Append(ctx, rec); err != nil {
		s.logger.Error("failed to record status transition",
			zap.String("order_id", rec.OrderID.String()),
			zap.String("from", rec.PreviousStatus.String()),
			zap.String("to", rec.NewStatus.String()),
			zap.Error(err))
	}
}

// SyncCancellation propagates a cancellation to the external sales platform.
// Orders without an external reference were created manually and are skipped.
func (s *SideEffects) SyncCancellation(tenantID kernel.UUID, externalRef *string) {
	if externalRef == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if !s.platform.HasActiveIntegration(ctx, tenantID) {
		return
	}

	if err := s.platform.CancelOrder(ctx, *externalRef); err != nil {
		s.logger.Warn("failed to sync order cancellation to platform",
			zap.String("tenant_id", tenantID.String()),
			zap.String("external_ref", *externalRef),
			zap.Error(err))
	}
}

// IssueQR renders the QR artifact for a freshly issued delivery credential.
func (s *SideEffects) IssueQR(token string) {
	if token == "" {
		return
	}

	if err := s.qr.GenerateForToken(token); err != nil {
		s.logger.Error("failed to generate delivery QR artifact", zap.Error(err))
	}
}

// RevokeQR removes the QR artifact of an invalidated delivery credential.
func (s *SideEffects) RevokeQR(token string) {
	if token == "" {
		return
	}

	if err := s.qr.RemoveForToken(token); err != nil {
		s.logger.Warn("failed to remove delivery QR artifact", zap.Error(err))
	}
}
