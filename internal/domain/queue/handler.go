package queue

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
	all := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff, auth.RolePatient))
	all.POST("/queue/check-in", h.CheckIn)
	all.GET("/queue/status", h.Board)
	all.GET("/queue/:id", h.GetEntry)

	staff := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	staff.GET("/queue", h.ListWaiting)
	staff.PUT("/queue/:id/status", h.UpdateStatus)
	staff.DELETE("/queue/:id", h.DeleteEntry)
}

type checkInRequest struct {
	PatientID string `json:"patient_id"`
	QueueType string `json:"queue_type"`
}

// CheckIn lets staff check in anyone; a patient checks in only themselves.
func (h *Handler) CheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if !auth.HasRole(ctx, auth.RoleStaff) && !auth.HasRole(ctx, auth.RoleDoctor) {
		req.PatientID = auth.UserIDFromContext(ctx)
	}
	e, err := h.svc.CheckIn(ctx, req.PatientID, req.QueueType)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEntry(c echo.Context) error {
	e, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListWaiting(c echo.Context) error {
	items, err := h.svc.Waiting(c.Request().Context())
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

func (h *Handler) Board(c echo.Context) error {
	board, err := h.svc.Board(c.Request().Context())
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, board)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEntry(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}
