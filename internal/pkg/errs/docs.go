// Package errs provides standardized error types for the marketplace service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the failure kinds callers branch on:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: an order or store id that does not resolve
//   - AuthError: missing or invalid bearer token, or a caller not allowed to act on a store
//   - IllegalTransitionError: an order status change the state machine does not permit
//   - PersistenceError: the datastore was unavailable, timed out or rejected a write
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Only PersistenceError is retryable; IsRetryable reports it for any wrapped chain.
package errs
