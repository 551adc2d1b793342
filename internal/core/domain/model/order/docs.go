// Package order provides the Order aggregate of the marketplace: a customer's
// purchase against one store, composed of one or more price-snapshotted lines,
// moving through a constrained status workflow.
//
// The package includes:
//   - Order: the aggregate root owning identity, lines, total and status
//   - Line: one product/quantity/unit price entry, owned by exactly one order
//   - Status: the state machine enforcing legal status transitions
//   - DomainEvent: CreatedEvent and StatusChangedEvent raised by the aggregate
//
// Key business rules:
//   - An order has at least one line; quantities and unit prices are positive
//   - Total equals the sum of quantity × unit price at creation and is never recomputed
//   - Lines and total are immutable after creation; only the status changes
//
// Status workflow:
//
//	PENDING ──> PREPARING ──> READY ──> PICKED_UP
//	   │            │           │
//	   └────────────┴───────────┴──────> CANCELLED
//
// PICKED_UP and CANCELLED are terminal. Orders are never deleted.
package order
