package blockedtime

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/pkg/timerange"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/blocked-slots", h.List)
	doctorGroup.POST("/blocked-slots", h.Create)
	doctorGroup.PUT("/blocked-slots/:id", h.Update)
	doctorGroup.DELETE("/blocked-slots/:id", h.Delete)

	// Patients see when a doctor is unavailable, but never why.
	readGroup := api.Group("", auth.RequireRole("doctor", "patient"))
	readGroup.GET("/doctors/:doctorId/blocked-slots", h.ListPublic)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctorID := auth.ActorIDFromContext(c.Request().Context())
	slot, err := h.svc.Create(c.Request().Context(), doctorID, req)
	if err != nil {
		return conflictHTTPError(err)
	}
	return c.JSON(http.StatusCreated, slot)
}

func (h *Handler) Update(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctorID := auth.ActorIDFromContext(c.Request().Context())
	slot, err := h.svc.Update(c.Request().Context(), doctorID, slotID, req)
	if err != nil {
		return conflictHTTPError(err)
	}
	return c.JSON(http.StatusOK, slot)
}

func (h *Handler) Delete(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	doctorID := auth.ActorIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), doctorID, slotID); err != nil {
		return conflictHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	doctorID := auth.ActorIDFromContext(c.Request().Context())
	slots, err := h.svc.List(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) ListPublic(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	slots, err := h.svc.ListPublic(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func conflictHTTPError(err error) error {
	var apptErr *AppointmentConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "blocked slot not found")
	case errors.As(err, &apptErr):
		return echo.NewHTTPError(http.StatusConflict, apptErr.Error())
	case errors.Is(err, ErrBlockedSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, timerange.ErrInvalidRange), errors.Is(err, ErrReasonTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
