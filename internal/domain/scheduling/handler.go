package scheduling

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
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.POST("/appointments", h.Book)
	api.PUT("/appointments/:id", h.Reschedule)
	api.DELETE("/appointments/:id", h.Cancel)

	api.GET("/availability", h.ListWindows)
	api.POST("/availability", h.CreateWindow)
	api.PUT("/availability/:id", h.UpdateWindow)
	api.DELETE("/availability/:id", h.DeleteWindow)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid id")
	}
	return id, nil
}

// actorID reads the optional actor_id query parameter used for audit
// attribution. Malformed values are ignored rather than rejected.
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

// -- Appointments --

func (h *Handler) Book(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	booked, err := h.svc.Book(c.Request().Context(), &a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booked)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	appt, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter AppointmentFilter
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Validationf("invalid patient_id")
		}
		filter.PatientID = &id
	}
	if raw := c.QueryParam("doctor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Validationf("invalid doctor_id")
		}
		filter.DoctorID = &id
	}

	items, total, err := h.svc.ListAppointments(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	req.ActorID = actorID(c)

	appt, err := h.svc.Reschedule(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	result, err := h.svc.Cancel(c.Request().Context(), id, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// -- Availability windows --

func (h *Handler) CreateWindow(c echo.Context) error {
	var w AvailabilityWindow
	if err := c.Bind(&w); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	created, err := h.svc.CreateWindow(c.Request().Context(), &w, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateWindow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var w AvailabilityWindow
	if err := c.Bind(&w); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	w.ID = id
	updated, err := h.svc.UpdateWindow(c.Request().Context(), &w, actorID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteWindow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteWindow(c.Request().Context(), id, actorID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListWindows(c echo.Context) error {
	if raw := c.QueryParam("doctor_id"); raw != "" {
		doctorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Validationf("invalid doctor_id")
		}
		windows, err := h.svc.WindowsFor(c.Request().Context(), doctorID)
		if err != nil {
			return err
		}
		if windows == nil {
			windows = []*AvailabilityWindow{}
		}
		return c.JSON(http.StatusOK, windows)
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListWindows(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*AvailabilityWindow{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
