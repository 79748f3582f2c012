package ports

import "fulfillment/internal/core/domain/model/kernel"

// Pusher fans a payload out to every live session of userID and reports how many
// sessions accepted it. It never blocks on a slow session.
type Pusher interface {
	Send(userID kernel.UUID, payload []byte) int
}
