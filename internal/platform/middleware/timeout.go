package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type handlerResult struct {
	err   error
	panic interface{}
}

// RequestTimeout puts a deadline on the request context and answers 504
// once it passes. The handler keeps running until it sees the cancelled
// context. A panic in the handler is re-raised on the request goroutine
// so Recovery still sees it. Zero disables the deadline.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if timeout <= 0 {
			return next
		}
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan handlerResult, 1)
			go func() {
				var res handlerResult
				defer func() {
					res.panic = recover()
					done <- res
				}()
				res.err = next(c)
			}()

			select {
			case res := <-done:
				if res.panic != nil {
					panic(res.panic)
				}
				return res.err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
				}
				return ctx.Err()
			}
		}
	}
}
