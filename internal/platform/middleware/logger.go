package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dermai/clinic/internal/platform/auth"
	"github.com/dermai/clinic/internal/platform/db"
)

// Logger writes one line per request. Client errors log at warn, server
// errors at error with the internal cause attached.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			status := c.Response().Status
			cause := err
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
					if he.Internal != nil {
						cause = he.Internal
					}
				}
			}

			evt := logger.Info()
			switch {
			case status >= 500:
				evt = logger.Error().Err(cause)
			case status >= 400:
				evt = logger.Warn()
				if cause != nil {
					evt = evt.Str("error", cause.Error())
				}
			}

			// identity is set further down the chain, on the request context
			ctx := c.Request().Context()
			evt.
				Str("request_id", requestID(c)).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.URL.RequestURI()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Str("hospital_id", db.HospitalFromContext(ctx)).
				Str("user_id", auth.UserIDFromContext(ctx)).
				Msg("request")

			return err
		}
	}
}
