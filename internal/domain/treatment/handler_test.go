package treatment

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
	req := httptest.NewRequest(method, "/api/v1/treatments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
}

func TestHandler_CRUD(t *testing.T) {
	h := NewHandler(NewService(NewRepoMem(), idbridge.Empty()))
	e := echo.New()

	rec := httptest.NewRecorder()
	if err := h.CreateTreatment(e.NewContext(newRequest(http.MethodPost, `{"name":"Laser","cost":2500}`), rec)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created Treatment
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPut, `{"duration":"3 sessions"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	if err := h.UpdateTreatment(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	var updated Treatment
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Duration != "3 sessions" || updated.Cost != 2500 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	rec = httptest.NewRecorder()
	if err := h.ListTreatments(e.NewContext(newRequest(http.MethodGet, ""), rec)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("unexpected list body: %s", rec.Body.String())
	}

	err := h.CreateTreatment(e.NewContext(newRequest(http.MethodPost, `{"name":"Laser","cost":-1}`), httptest.NewRecorder()))
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
