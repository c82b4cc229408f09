package report

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dermai/clinic/internal/platform/auth"
	"github.com/dermai/clinic/internal/platform/httperr"
	"github.com/dermai/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	staff.GET("/reports", h.ListReports)
	staff.GET("/reports/unread", h.ListUnread)
	staff.POST("/reports", h.CreateReport)
	staff.PUT("/reports/:id", h.UpdateReport)
	staff.POST("/reports/:id/summarize", h.SummarizeReport)

	doctors := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctors.DELETE("/reports/:id", h.DeleteReport)

	// patients read their own reports and take part in the thread
	shared := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff, auth.RolePatient))
	shared.GET("/reports/:id", h.GetReport)
	shared.GET("/patients/:id/reports", h.ListPatientReports)
	shared.POST("/reports/:id/messages", h.SendMessage)
	shared.POST("/reports/:id/read", h.MarkRead)
}

func (h *Handler) CreateReport(c echo.Context) error {
	var r Report
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetReport(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateReport(c echo.Context) error {
	var u Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Update(c.Request().Context(), c.Param("id"), &u)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReport(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) ListPatientReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

type messageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

func (h *Handler) SendMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.SendMessage(c.Request().Context(), c.Param("id"), req.Sender, req.Content)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, m)
}

type readRequest struct {
	Reader string `json:"reader"`
}

func (h *Handler) MarkRead(c echo.Context) error {
	var req readRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.MarkRead(c.Request().Context(), c.Param("id"), req.Reader); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListUnread(c echo.Context) error {
	items, err := h.svc.UnreadForDoctor(c.Request().Context())
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

func (h *Handler) SummarizeReport(c echo.Context) error {
	r, err := h.svc.Summarize(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, r)
}
