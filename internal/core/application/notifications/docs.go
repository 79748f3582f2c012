// Package notifications is the durable inbox with best-effort real-time push.
//
// Every notification is stored before it is pushed, so a client that was
// offline finds it through List or Unread. Push delivery is at-most-once.
package notifications
