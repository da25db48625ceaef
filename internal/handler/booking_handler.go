package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tickethub/ticket-booking/internal/dto"
	"github.com/tickethub/ticket-booking/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/v1/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("/:id", h.GetBooking)
	bookings.DELETE("/:id", h.CancelBooking)

	e.GET("/api/v1/users/:id/bookings", h.ListUserBookings)
	e.GET("/api/v1/events/:id/bookings", h.ListEventBookings)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.TicketID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and ticket_id are required")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), req.UserID, req.TicketID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrTicketNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSaleClosed),
			errors.Is(err, service.ErrInsufficientTickets),
			errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrReservationFailed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	bookingID := c.Param("id")
	userID := userIDFrom(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrBookingAlreadyCancelled),
			errors.Is(err, service.ErrCancellationWindowClosed),
			errors.Is(err, service.ErrInvalidReleaseState):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrLockUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID := c.Param("id")
	userID := userIDFrom(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	userID := c.Param("id")
	page, limit := pagination(c)

	bookings, total, err := h.svc.ListUserBookings(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingListResponse(bookings, total, page, limit))
}

func (h *BookingHandler) ListEventBookings(c echo.Context) error {
	eventID := c.Param("id")
	page, limit := pagination(c)

	bookings, total, err := h.svc.ListEventBookings(c.Request().Context(), eventID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingListResponse(bookings, total, page, limit))
}

// userIDFrom reads the requesting buyer's id. The auth layer in front of
// this service normally injects it; the query param keeps the endpoint
// usable standalone.
func userIDFrom(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return c.QueryParam("user_id")
}

func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
