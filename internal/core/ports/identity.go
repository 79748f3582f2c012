package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/actor"
)

// ErrUnauthenticated is returned when a credential is missing, malformed or expired.
var ErrUnauthenticated = errors.New("unauthenticated")

// IdentityResolver turns a request credential into the acting user.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (actor.Actor, error)
}
