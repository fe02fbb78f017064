// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"codorders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// HistoryRepoFactory provides access to the transition history repository
	// within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// StockUoW manages transactions that move an order across a stock boundary.
	// Locks and adjusts product rows in the same transaction as the order row
	// so stock counters and order status can never diverge.
	StockUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
	}

	// StockUoWFactory creates new stock unit of work instances.
	StockUoWFactory interface {
		Create() StockUoW
	}

	// ConfirmUoW manages the order confirmation transaction.
	// Confirmation touches the order, validates the assigned courier and
	// resolves the upsell product price in a single transaction.
	ConfirmUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		ProductRepoFactory
	}

	// ConfirmUoWFactory creates new confirmation unit of work instances.
	ConfirmUoWFactory interface {
		Create() ConfirmUoW
	}

	// PurgeUoW manages hard deletion of an order.
	// Deletion returns committed stock and removes the transition history
	// rows together with the order row.
	PurgeUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		HistoryRepoFactory
	}

	// PurgeUoWFactory creates new purge unit of work instances.
	PurgeUoWFactory interface {
		Create() PurgeUoW
	}
)
