package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDMiddleware tags each request with an X-Request-ID, keeping any id
// already set by an upstream proxy.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
				req.Header.Set(echo.HeaderXRequestID, id)
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(ctx)
		}
	}
}
