package dto

import (
	"time"

	"github.com/tickethub/ticket-booking/internal/models"
)

type BookingResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	TicketID   string               `json:"ticket_id"`
	Quantity   int                  `json:"quantity"`
	TotalPrice string               `json:"total_price"`
	Status     models.BookingStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type TicketResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	SoldCount int    `json:"sold_count"`
	Available int    `json:"available"`
}

type AvailabilityResponse struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Available int    `json:"available"`
}

type ReserveResponse struct {
	Reserved bool `json:"reserved"`
}

type ReleaseResponse struct {
	Released bool `json:"released"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		TicketID:   b.TicketID,
		Quantity:   b.Quantity,
		TotalPrice: b.TotalPrice.StringFixed(2),
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
}

func ToBookingListResponse(bookings []models.Booking, total int64, page, limit int) BookingListResponse {
	resp := BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	for i, b := range bookings {
		resp.Bookings[i] = ToBookingResponse(&b)
	}
	return resp
}

func ToTicketResponse(t *models.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		EventID:   t.EventID,
		Type:      t.Type,
		Price:     t.Price.StringFixed(2),
		Quantity:  t.Quantity,
		SoldCount: t.SoldCount,
		Available: t.Available(),
	}
}
