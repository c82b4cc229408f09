package medicine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
)

func newRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/medicines", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
}

func TestHandler_AdjustStock(t *testing.T) {
	svc := NewService(NewRepoMem(), idbridge.Empty())
	h := NewHandler(svc)
	e := echo.New()

	m := &Medicine{Name: "Doxycycline", Stock: 2}
	if err := svc.Create(newRequest(http.MethodGet, "").Context(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPost, `{"delta":-2}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID)
	if err := h.AdjustStock(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Medicine
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Stock != 0 {
		t.Errorf("expected stock 0, got %d", got.Stock)
	}

	c = e.NewContext(newRequest(http.MethodPost, `{"delta":-1}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(m.ID)
	err := h.AdjustStock(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_CreateMedicine_BadRequest(t *testing.T) {
	h := NewHandler(NewService(NewRepoMem(), idbridge.Empty()))
	c := echo.New().NewContext(newRequest(http.MethodPost, `{"stock":5}`), httptest.NewRecorder())
	err := h.CreateMedicine(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
