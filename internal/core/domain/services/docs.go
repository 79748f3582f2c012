// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - OrderDispatcher: binds one Free courier to a Confirmed order awaiting a courier
package services
