package assistant

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/auth"
	"github.com/dermai/clinic/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := api.Group("/ai", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	clinical.POST("/diagnosis", h.Diagnose)
	clinical.POST("/treatment-plan", h.PlanTreatment)
	clinical.POST("/analyze", h.AnalyzeCase)
	clinical.POST("/recommendations", h.Recommend)
	clinical.POST("/validate", h.Validate)
	clinical.POST("/report-summary", h.Summarize)

	shared := api.Group("/ai", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff, auth.RolePatient))
	shared.POST("/explain", h.Explain)
	shared.POST("/chat", h.Chat)
}

func bad(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) Diagnose(c echo.Context) error {
	var req Case
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	d, err := h.svc.Diagnose(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, d)
}

type planRequest struct {
	Case
	Diagnosis *Diagnosis `json:"diagnosis"`
}

func (h *Handler) PlanTreatment(c echo.Context) error {
	var req planRequest
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	p, err := h.svc.PlanTreatment(c.Request().Context(), req.Case, req.Diagnosis)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) AnalyzeCase(c echo.Context) error {
	var req Case
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	a, err := h.svc.AnalyzeCase(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Recommend(c echo.Context) error {
	var req PatientHistory
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	r, err := h.svc.Recommend(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Explain(c echo.Context) error {
	var req ExplainRequest
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	e, err := h.svc.Explain(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	r, err := h.svc.Chat(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Summarize(c echo.Context) error {
	var req SummaryRequest
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	r, err := h.svc.Summarize(c.Request().Context(), req)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Validate(c echo.Context) error {
	req := map[string]interface{}{}
	if err := c.Bind(&req); err != nil {
		return bad(err)
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "recommendation is required")
	}
	return c.JSON(http.StatusOK, h.svc.Validate(req))
}
