package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ErrRequestTimeout is returned when a handler fails because its deadline
// passed.
var ErrRequestTimeout = echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")

// RequestTimeout puts a deadline on every request context. The handler runs
// on the request goroutine and the middleware returns only after it does, so
// store calls are cancelled at the deadline but the echo.Context is never
// written to once it has gone back to the pool. Errors caused by the
// deadline, including ones wrapped in an HTTPError, become ErrRequestTimeout.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout: timeout,
		ErrorHandler: func(err error, c echo.Context) error {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrRequestTimeout.WithInternal(err)
			}
			return err
		},
	})
}
