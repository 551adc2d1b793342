// Package kernel provides the value objects shared by the marketplace domain model.
//
// The package includes:
//   - UUID: identifier for orders, stores and products, wrapping github.com/google/uuid
//   - Money: a strictly positive decimal amount, wrapping github.com/shopspring/decimal
//
// Both are immutable and safe for concurrent use. Zero values are invalid and
// report an error from Validate.
package kernel
