package db

import (
	"context"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/store"
)

type contextKey string

const HospitalIDKey contextKey = "hospital_id"

// HospitalHeader lets trusted callers pick a hospital when the token
// carries none.
const HospitalHeader = "X-Hospital-ID"

var hospitalIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// HospitalMiddleware scopes each request to one hospital. Every repository
// filters rows by the hospital stored here.
func HospitalMiddleware(defaultHospital string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hospitalID := extractHospitalID(c, defaultHospital)

			if !ValidHospitalID(hospitalID) {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital identifier")
			}

			ctx := WithHospital(c.Request().Context(), hospitalID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("hospital_id", hospitalID)

			return next(c)
		}
	}
}

func extractHospitalID(c echo.Context, defaultHospital string) string {
	// set by the auth middleware from the token
	if hid, ok := c.Get("jwt_hospital_id").(string); ok && hid != "" {
		return hid
	}
	if hid := c.Request().Header.Get(HospitalHeader); hid != "" {
		return hid
	}
	if hid := c.QueryParam("hospital_id"); hid != "" {
		return hid
	}
	return defaultHospital
}

func ValidHospitalID(id string) bool {
	return hospitalIDPattern.MatchString(id)
}

func WithHospital(ctx context.Context, hospitalID string) context.Context {
	return context.WithValue(ctx, HospitalIDKey, hospitalID)
}

// HospitalFromContext returns the request's hospital, or "" outside a
// request.
func HospitalFromContext(ctx context.Context) string {
	hid, _ := ctx.Value(HospitalIDKey).(string)
	return hid
}

// RequireHospital is HospitalFromContext for repositories: a missing scope
// is an error rather than a query across every hospital.
func RequireHospital(ctx context.Context) (string, error) {
	hid := HospitalFromContext(ctx)
	if hid == "" {
		return "", store.ErrNoHospital
	}
	return hid, nil
}
