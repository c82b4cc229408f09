package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractHospitalID_FromHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HospitalHeader, "hospital_abc")
	c := e.NewContext(req, httptest.NewRecorder())

	if hid := extractHospitalID(c, "default"); hid != "hospital_abc" {
		t.Errorf("expected hospital_abc, got %s", hid)
	}
}

func TestExtractHospitalID_FromQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?hospital_id=clinic_xyz", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if hid := extractHospitalID(c, "default"); hid != "clinic_xyz" {
		t.Errorf("expected clinic_xyz, got %s", hid)
	}
}

func TestExtractHospitalID_TokenWins(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?hospital_id=from_query", nil)
	req.Header.Set(HospitalHeader, "from_header")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("jwt_hospital_id", "from_token")

	if hid := extractHospitalID(c, "default"); hid != "from_token" {
		t.Errorf("expected from_token, got %s", hid)
	}
}

func TestExtractHospitalID_Default(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if hid := extractHospitalID(c, "hospital_dermai_01"); hid != "hospital_dermai_01" {
		t.Errorf("expected default hospital, got %s", hid)
	}
}

func TestHospitalMiddleware_SetsContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HospitalHeader, "hospital_dermai_02")
	c := e.NewContext(req, httptest.NewRecorder())

	var seen string
	h := HospitalMiddleware("hospital_dermai_01")(func(c echo.Context) error {
		seen = HospitalFromContext(c.Request().Context())
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "hospital_dermai_02" {
		t.Errorf("expected hospital_dermai_02, got %q", seen)
	}
}

func TestHospitalMiddleware_RejectsInvalid(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HospitalHeader, "x; DROP TABLE patients")
	c := e.NewContext(req, httptest.NewRecorder())

	err := HospitalMiddleware("default")(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", he.Code)
	}
}

func TestHospitalFromContext_Empty(t *testing.T) {
	if hid := HospitalFromContext(context.Background()); hid != "" {
		t.Errorf("expected empty hospital, got %q", hid)
	}
}
