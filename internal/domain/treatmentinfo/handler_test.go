package treatmentinfo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/domain/treatment"
	"github.com/dermai/clinic/internal/platform/db"
)

func newRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/treatment-info", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
}

func TestHandler_GenerateThenGet(t *testing.T) {
	f := newFixture(t, nil)
	h := NewHandler(f.svc)
	e := echo.New()
	tr := &treatment.Treatment{Name: "Chemical peel"}
	if err := f.treatments.Create(testCtx(), tr); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	body := `{"item_type":"treatment","item_id":"` + tr.ID + `"}`
	if err := h.Generate(e.NewContext(newRequest(http.MethodPost, body), rec)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	var info Info
	json.Unmarshal(rec.Body.Bytes(), &info)
	if info.ItemName != "Chemical peel" || info.Explanation == "" {
		t.Errorf("unexpected info: %+v", info)
	}

	rec = httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodGet, ""), rec)
	c.SetParamNames("type", "id")
	c.SetParamValues("treatment", tr.ID)
	if err := h.GetInfo(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetInfo_NotGenerated(t *testing.T) {
	h := NewHandler(newFixture(t, nil).svc)
	c := echo.New().NewContext(newRequest(http.MethodGet, ""), httptest.NewRecorder())
	c.SetParamNames("type", "id")
	c.SetParamValues("medicine", "m-unknown")
	err := h.GetInfo(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
