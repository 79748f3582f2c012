// Package matching owns the set of pending match requests and binds Free couriers
// to Confirmed orders.
//
// RequestMatch tries an immediate claim and falls back to queueing the order.
// RunCycle sweeps the queue oldest-first; it is driven by a single scheduled job,
// never by per-order timers, and two cycles never overlap. Release returns a
// courier to the pool and is retried by the next cycle when the store fails.
//
// The pending set lives only in memory. Restore rebuilds it from the order store
// at startup, so a restart loses no request.
package matching
