// Package httperr maps service errors to HTTP errors.
package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/capability"
	"github.com/dermai/clinic/internal/platform/store"
)

// From converts err into an *echo.HTTPError. Server-side failures keep the
// original error as Internal so the request logger records it, and send a
// generic message to the client.
func From(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(err)
	case errors.Is(err, store.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err, store.ErrInvalidInput))
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, clientMessage(err, store.ErrConflict))
	case errors.Is(err, store.ErrNoHospital):
		return echo.NewHTTPError(http.StatusBadRequest, "hospital scope required")
	}

	var ce *capability.Error
	if errors.As(err, &ce) {
		return echo.NewHTTPError(http.StatusBadGateway, ce.Capability+" unavailable").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
}

// clientMessage strips the sentinel prefix, leaving the detail.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}
