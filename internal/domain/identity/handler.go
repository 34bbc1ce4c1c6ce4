package identity

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
	api.GET("/roles", h.ListRoles)
	api.GET("/roles/:id", h.GetRole)
	api.POST("/roles", h.CreateRole)
	api.PUT("/roles/:id", h.UpdateRole)
	api.DELETE("/roles/:id", h.DeleteRole)

	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
	api.POST("/users", h.CreateUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.POST("/users/:id/activate", h.ActivateUser)
	api.POST("/users/:id/deactivate", h.DeactivateUser)
	api.DELETE("/users/:id", h.DeactivateUser)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid id")
	}
	return id, nil
}

func actorID(c echo.Context) *int64 {
	raw := c.QueryParam("actor_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// -- Roles --

func (h *Handler) CreateRole(c echo.Context) error {
	var r Role
	if err := c.Bind(&r); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreateRole(c.Request().Context(), &r, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.GetRole(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var r Role
	if err := c.Bind(&r); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	r.ID = id
	updated, err := h.svc.UpdateRole(c.Request().Context(), &r, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteRole(c.Request().Context(), id, actorID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListRoles(c echo.Context) error {
	pg := pagination.FromContext(c)
	roles, total, err := h.svc.ListRoles(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []*Role{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(roles, total, pg.Limit, pg.Offset))
}

// -- Users --

func (h *Handler) CreateUser(c echo.Context) error {
	var u User
	if err := c.Bind(&u); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreateUser(c.Request().Context(), &u, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var u User
	if err := c.Bind(&u); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	u.ID = id
	updated, err := h.svc.UpdateUser(c.Request().Context(), &u, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ActivateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.ActivateUser(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeactivateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.DeactivateUser(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListUsers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}
