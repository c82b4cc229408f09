package treatmentinfo

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
	g := api.Group("/treatment-info", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff, auth.RolePatient))
	g.GET("/:type/:id", h.GetInfo)
	g.POST("/generate", h.Generate)
	g.POST("/batch", h.Batch)
}

func (h *Handler) GetInfo(c echo.Context) error {
	info, err := h.svc.Get(c.Request().Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, info)
}

type generateRequest struct {
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"`
}

func (h *Handler) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	info, err := h.svc.Generate(c.Request().Context(), req.ItemType, req.ItemID)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, info)
}

type batchRequest struct {
	Items []ItemRef `json:"items"`
}

func (h *Handler) Batch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.svc.Batch(c.Request().Context(), req.Items)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}
