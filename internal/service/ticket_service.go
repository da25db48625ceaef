package service

import (
	"context"
	"errors"

	"github.com/tickethub/ticket-booking/internal/models"
	"github.com/tickethub/ticket-booking/internal/repository"
	"gorm.io/gorm"
)

type TicketService interface {
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListAvailable(ctx context.Context, eventID string) ([]models.Ticket, error)
	CheckAvailability(ctx context.Context, eventID, ticketType string) (int, error)
}

type ticketService struct {
	tickets repository.TicketRepository
}

func NewTicketService(tickets repository.TicketRepository) TicketService {
	return &ticketService{tickets: tickets}
}

func (s *ticketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (s *ticketService) ListAvailable(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return s.tickets.FindAvailableByEvent(ctx, eventID)
}

// CheckAvailability returns the remaining units for one ticket type of an
// event; an unknown type counts as zero availability, not an error.
func (s *ticketService) CheckAvailability(ctx context.Context, eventID, ticketType string) (int, error) {
	ticket, err := s.tickets.FindByEventAndType(ctx, eventID, ticketType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return ticket.Available(), nil
}
