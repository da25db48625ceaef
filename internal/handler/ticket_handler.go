package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tickethub/ticket-booking/internal/dto"
	"github.com/tickethub/ticket-booking/internal/service"
)

// TicketHandler exposes availability queries and the low-level
// reserve/release pair, usable independently of bookings for hold-style
// checkout flows.
type TicketHandler struct {
	tickets      service.TicketService
	reservations service.ReservationService
}

func NewTicketHandler(tickets service.TicketService, reservations service.ReservationService) *TicketHandler {
	return &TicketHandler{tickets: tickets, reservations: reservations}
}

func (h *TicketHandler) RegisterRoutes(e *echo.Echo) {
	tickets := e.Group("/api/v1/tickets")
	tickets.GET("/:id", h.GetTicket)
	tickets.POST("/:id/reserve", h.ReserveTicket)
	tickets.POST("/:id/release", h.ReleaseTicket)

	events := e.Group("/api/v1/events")
	events.GET("/:id/tickets", h.ListAvailableTickets)
	events.GET("/:id/availability", h.CheckAvailability)
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	ticket, err := h.tickets.GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) ListAvailableTickets(c echo.Context) error {
	tickets, err := h.tickets.ListAvailable(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := make([]dto.TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = dto.ToTicketResponse(&t)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) CheckAvailability(c echo.Context) error {
	ticketType := c.QueryParam("type")
	if ticketType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type is required")
	}

	available, err := h.tickets.CheckAvailability(c.Request().Context(), c.Param("id"), ticketType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		EventID:   c.Param("id"),
		Type:      ticketType,
		Available: available,
	})
}

func (h *TicketHandler) ReserveTicket(c echo.Context) error {
	var req dto.ReserveTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.HolderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "holder_id is required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := h.reservations.Reserve(c.Request().Context(), c.Param("id"), req.HolderID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLockUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrTicketNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTicketUnavailable),
			errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, dto.ReserveResponse{Reserved: true})
}

func (h *TicketHandler) ReleaseTicket(c echo.Context) error {
	var req dto.ReleaseTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := h.reservations.Release(c.Request().Context(), c.Param("id"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLockUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidReleaseState),
			errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, dto.ReleaseResponse{Released: true})
}
