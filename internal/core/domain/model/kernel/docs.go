// Package kernel provides the shared domain primitives of the fulfillment core.
//
// The package includes:
//   - UUID: a value object for identifiers of orders, couriers, users and notifications
//   - Money: an amount in minor currency units used for item prices and order totals
//
// Both are immutable and safe for concurrent use.
package kernel
