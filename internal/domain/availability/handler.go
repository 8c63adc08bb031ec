package availability

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/availability", h.GetOwnAvailability)
	doctorGroup.PUT("/availability/slots/:id", h.UpdateSlot)

	// Patients browse a doctor's weekly availability when booking.
	readGroup := api.Group("", auth.RequireRole("doctor", "patient"))
	readGroup.GET("/doctors/:doctorId/availability", h.GetDoctorAvailability)
}

func (h *Handler) GetOwnAvailability(c echo.Context) error {
	doctorID := auth.ActorIDFromContext(c.Request().Context())
	slots, err := h.svc.GetOrCreate(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) GetDoctorAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	slots, err := h.svc.GetOrCreate(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) UpdateSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctorID := auth.ActorIDFromContext(c.Request().Context())
	slot, err := h.svc.UpdateSlot(c.Request().Context(), doctorID, slotID, req)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "availability slot not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, slot)
}
