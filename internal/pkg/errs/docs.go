// Package errs provides standardized error types for the fulfillment application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
//   - ObjectNotFoundError: an aggregate cannot be found
//   - InvalidTransitionError: the current status does not permit the requested event
//   - ForbiddenError: the caller's role or relation to the aggregate does not permit the event
//   - ConflictError: a concurrent writer changed the aggregate first
//   - StoreFailureError: the persistence layer failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on every kind
package errs
