// Package order contains the Order aggregate root and the value objects that
// govern its lifecycle: the closed Status enumeration, the transition rule
// table, line items, the single-use delivery token and the courier-facing
// delivery sub-state.
//
// The aggregate enforces every lifecycle invariant itself: statuses only move
// along transitions approved by the TransitionTable, lifecycle timestamps are
// set exactly once, the delivery token exists exactly while a courier may act
// on the order, and the version counter increases by one on every successful
// mutation. Persistence and transport layers never mutate these fields
// directly.
package order
