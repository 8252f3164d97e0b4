package echoapi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/kazi/core"
)

const (
	ctxActorKey = "actor"

	// set by the authenticating proxy in front of the API
	headerForwardedUser  = "X-Forwarded-User"
	headerForwardedName  = "X-Forwarded-Preferred-Username"
	headerForwardedEmail = "X-Forwarded-Email"
)

func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// actorMiddleware stores the upstream-authenticated person in the context, if any.
func actorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header
			if id := core.CleanString(header.Get(headerForwardedUser)); id != "" {
				ctx.Set(ctxActorKey, core.Actor{
					ID:       id,
					Username: core.CleanString(header.Get(headerForwardedName)),
					Email:    core.CleanString(header.Get(headerForwardedEmail), true),
				})
			}
			return next(ctx)
		}
	}
}

func getContextActor(ctx echo.Context) (core.Actor, bool) {
	actor, ok := ctx.Get(ctxActorKey).(core.Actor)
	return actor, ok
}

// timeoutMiddleware bounds the request context, so that collaborator calls give up after d.
func timeoutMiddleware(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if d <= 0 {
				return next(ctx)
			}
			c, cancel := context.WithTimeout(ctx.Request().Context(), d)
			defer cancel()
			ctx.SetRequest(ctx.Request().WithContext(c))
			return next(ctx)
		}
	}
}
