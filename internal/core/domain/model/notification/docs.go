// Package notification holds the durable inbox entry delivered to one user.
// The row is the source of truth; real-time push is only a convenience.
package notification
