package medicine

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
	read := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff, auth.RolePatient))
	read.GET("/medicines", h.ListMedicines)
	read.GET("/medicines/:id", h.GetMedicine)

	write := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	write.POST("/medicines", h.CreateMedicine)
	write.PUT("/medicines/:id", h.UpdateMedicine)
	write.DELETE("/medicines/:id", h.DeleteMedicine)
	write.POST("/medicines/:id/stock", h.AdjustStock)
}

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	var u Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Update(c.Request().Context(), c.Param("id"), &u)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

type stockRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) AdjustStock(c echo.Context) error {
	var req stockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.AdjustStock(c.Request().Context(), c.Param("id"), req.Delta)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, m)
}
