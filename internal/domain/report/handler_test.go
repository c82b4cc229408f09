package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/db"
)

func newTestHandler() (*Handler, *Service, *echo.Echo) {
	svc := newTestService()
	return NewHandler(svc), svc, echo.New()
}

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req.WithContext(db.WithHospital(req.Context(), "hospital_test"))
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func TestHandler_CreateReport(t *testing.T) {
	h, _, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPost, "/api/v1/reports", `{"patient_id":"fb_p1","diagnosis":"acne"}`), rec)

	if err := h.CreateReport(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var r Report
	json.Unmarshal(rec.Body.Bytes(), &r)
	if r.PatientID != "p1" || r.ID == "" {
		t.Errorf("unexpected body: %+v", r)
	}

	c = e.NewContext(newRequest(http.MethodPost, "/api/v1/reports", `{"diagnosis":"acne"}`), httptest.NewRecorder())
	if code := httpCode(t, h.CreateReport(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_GetReport_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(newRequest(http.MethodGet, "/", ""), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if code := httpCode(t, h.GetReport(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_MessagesAndInbox(t *testing.T) {
	h, svc, e := newTestHandler()
	r := &Report{PatientID: "p1"}
	svc.Create(newRequest(http.MethodGet, "/", "").Context(), r)

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodPost, "/", `{"sender":"patient","content":"itchy"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(r.ID)
	if err := h.SendMessage(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(newRequest(http.MethodGet, "/api/v1/reports/unread", ""), rec)
	if err := h.ListUnread(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var inbox struct {
		Data  []UnreadSummary `json:"data"`
		Total int             `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &inbox)
	if inbox.Total != 1 || inbox.Data[0].PatientName != "Asha" || inbox.Data[0].UnreadMessages != 1 {
		t.Errorf("unexpected inbox: %+v", inbox)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(newRequest(http.MethodPost, "/", `{"reader":"doctor"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(r.ID)
	if err := h.MarkRead(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c = e.NewContext(newRequest(http.MethodPost, "/", `{"sender":"robot","content":"x"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(r.ID)
	if code := httpCode(t, h.SendMessage(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_ListPatientReports(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := newRequest(http.MethodGet, "/", "").Context()
	svc.Create(ctx, &Report{PatientID: "p1"})
	svc.Create(ctx, &Report{PatientID: "p2"})

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodGet, "/api/v1/patients/fb_p1/reports", ""), rec)
	c.SetParamNames("id")
	c.SetParamValues("fb_p1")
	if err := h.ListPatientReports(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 1 {
		t.Errorf("expected 1 report for p1, got %d", body.Total)
	}
}

func TestHandler_DeleteReport(t *testing.T) {
	h, svc, e := newTestHandler()
	r := &Report{PatientID: "p1"}
	svc.Create(newRequest(http.MethodGet, "/", "").Context(), r)

	rec := httptest.NewRecorder()
	c := e.NewContext(newRequest(http.MethodDelete, "/", ""), rec)
	c.SetParamNames("id")
	c.SetParamValues(r.ID)
	if err := h.DeleteReport(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
