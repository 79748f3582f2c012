package http

import (
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Authenticate resolves the Authorization bearer token once per request and
// stores the acting user in the echo context. Requests without a valid token
// get 401. The query string is never read.
func Authenticate(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, err := resolver.Resolve(c.Request().Context(), ws.BearerToken(c.Request()))
			if err != nil {
				return err
			}
			c.Set(actorKey, who)
			return next(c)
		}
	}
}

// ActorFrom returns the user set by Authenticate.
func ActorFrom(c echo.Context) (actor.Actor, error) {
	who, ok := c.Get(actorKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, ports.ErrUnauthenticated
	}
	return who, nil
}
