// Package services contains stateless domain services that coordinate
// decisions across aggregates. The StockGuard gates the transition into the
// dispatched region of the order lifecycle against product inventory.
package services
