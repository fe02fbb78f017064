package ports

import (
	"context"

	"codorders/internal/core/domain/model/kernel"
)

// PlatformGateway is the outbound contract toward the linked commerce
// platform. Calls are best effort: they run after the local transition
// committed, failures are logged and never propagate back into the pipeline.
type PlatformGateway interface {
	// HasActiveIntegration reports whether the tenant has a platform link.
	HasActiveIntegration(ctx context.Context, tenantID kernel.UUID) bool

	// CancelOrder notifies the platform that the externally-sourced order
	// was cancelled, rejected or returned locally.
	CancelOrder(ctx context.Context, externalRef string) error
}
