package registry

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
	api.GET("/statuses", h.ListStatuses)
	api.GET("/statuses/:id", h.GetStatus)
	api.POST("/statuses", h.CreateStatus)
	api.PUT("/statuses/:id", h.UpdateStatus)
	api.DELETE("/statuses/:id", h.DeleteStatus)

	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.POST("/doctors", h.CreateDoctor)
	api.PUT("/doctors/:id", h.UpdateDoctor)
	api.POST("/doctors/:id/activate", h.ActivateDoctor)
	api.POST("/doctors/:id/deactivate", h.DeactivateDoctor)
	api.DELETE("/doctors/:id", h.DeactivateDoctor)

	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.POST("/patients/:id/activate", h.ActivatePatient)
	api.POST("/patients/:id/deactivate", h.DeactivatePatient)
	api.DELETE("/patients/:id", h.DeactivatePatient)
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

// -- Statuses --

func (h *Handler) CreateStatus(c echo.Context) error {
	var st Status
	if err := c.Bind(&st); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreateStatus(c.Request().Context(), &st, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	st, err := h.svc.GetStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var st Status
	if err := c.Bind(&st); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	st.ID = id
	updated, err := h.svc.UpdateStatus(c.Request().Context(), &st, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteStatus(c.Request().Context(), id, actorID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListStatuses(c echo.Context) error {
	pg := pagination.FromContext(c)
	statuses, total, err := h.svc.ListStatuses(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if statuses == nil {
		statuses = []*Status{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(statuses, total, pg.Limit, pg.Offset))
}

// -- Doctors --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreateDoctor(c.Request().Context(), &d, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	d.ID = id
	updated, err := h.svc.UpdateDoctor(c.Request().Context(), &d, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg.Limit, pg.Offset))
}

func (h *Handler) ActivateDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.ActivateDoctor(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeactivateDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.DeactivateDoctor(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// -- Patients --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreatePatient(c.Request().Context(), &p, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	p.ID = id
	updated, err := h.svc.UpdatePatient(c.Request().Context(), &p, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) ActivatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.ActivatePatient(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeactivatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.DeactivatePatient(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
