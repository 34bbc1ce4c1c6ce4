package audit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Brandonscs/HealPoint/internal/platform/apperr"
	"github.com/Brandonscs/HealPoint/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit", h.Search)
	api.GET("/audit/:id", h.Get)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := Filter{
		Entity: c.QueryParam("entity"),
		Action: c.QueryParam("action"),
	}

	items, total, err := h.svc.Search(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Record{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validationf("invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}
