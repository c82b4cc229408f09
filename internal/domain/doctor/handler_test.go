package doctor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
)

func TestHandler_CreateAndGet(t *testing.T) {
	svc := NewService(NewRepoMem(), idbridge.Empty())
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(`{"name":"Dr. C"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
	rec := httptest.NewRecorder()
	if err := h.CreateDoctor(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")
	err := h.GetDoctor(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
