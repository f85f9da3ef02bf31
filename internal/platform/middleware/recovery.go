package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labtrack/labtrack/internal/platform/auth"
)

// Recovery turns a handler panic into a 500. The log line carries the caller
// and the organisation being addressed so a panic on tenant data can be
// traced to the request that caused it.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				buf := make([]byte, 4096)
				buf = buf[:runtime.Stack(buf, false)]

				req := c.Request()
				rid, _ := c.Get(RequestIDKey).(string)
				evt := logger.Error().
					Str("request_id", rid).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", buf)
				if org := c.Param("org"); org != "" {
					evt = evt.Str("organisation_id", org)
				}
				if uid := auth.UserIDFromContext(req.Context()); uid != "" {
					evt = evt.Str("user_id", uid)
				}
				evt.Msg("panic recovered")

				err = echo.NewHTTPError(http.StatusInternalServerError, "something went wrong")
			}()
			return next(c)
		}
	}
}
