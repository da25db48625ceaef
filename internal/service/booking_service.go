package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tickethub/ticket-booking/internal/models"
	"github.com/tickethub/ticket-booking/internal/notification"
	"github.com/tickethub/ticket-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrSaleClosed               = errors.New("ticket sales are not open")
	ErrInsufficientTickets      = errors.New("not enough tickets available")
	ErrReservationFailed        = errors.New("failed to reserve tickets")
	ErrBookingAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrCancellationWindowClosed = errors.New("cancellation is not allowed within 48 hours of the event")
)

// minCancelLead is the cancellation window: a booking can only be
// cancelled while the event is at least this far away.
const minCancelLead = 48 * time.Hour

const (
	compensateRetries = 3
	compensateBackoff = 50 * time.Millisecond
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID, ticketID string, quantity int) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string, page, limit int) ([]models.Booking, int64, error)
	ListEventBookings(ctx context.Context, eventID string, page, limit int) ([]models.Booking, int64, error)
}

type bookingService struct {
	bookings     repository.BookingRepository
	tickets      repository.TicketRepository
	users        repository.UserRepository
	reservations ReservationService
	notifier     notification.Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	reservations ReservationService,
	notifier notification.Notifier,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		bookings:     bookings,
		tickets:      tickets,
		users:        users,
		reservations: reservations,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateBooking reserves inventory through the reservation service and
// persists the booking in pending status. If persistence fails after a
// successful reservation, the units are released again before the error
// is surfaced, so a failed attempt never leaks inventory.
func (s *bookingService) CreateBooking(ctx context.Context, userID, ticketID string, quantity int) (*models.Booking, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("load ticket: %w", err)
	}

	if !ticket.SaleOpen(s.now()) {
		return nil, ErrSaleClosed
	}

	// Fast precheck on the last-read counts. The authoritative check runs
	// inside the reservation's critical section.
	if ticket.Available() < quantity {
		return nil, ErrInsufficientTickets
	}

	totalPrice := ticket.Price.Mul(decimal.NewFromInt(int64(quantity)))

	if err := s.reservations.Reserve(ctx, ticketID, userID, quantity); err != nil {
		switch {
		case errors.Is(err, ErrLockUnavailable):
			return nil, ErrReservationFailed
		case errors.Is(err, ErrTicketUnavailable):
			return nil, ErrInsufficientTickets
		default:
			return nil, err
		}
	}

	booking := &models.Booking{
		UserID:     userID,
		TicketID:   ticketID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		Status:     models.StatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		s.compensateRelease(ctx, ticketID, quantity)
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	booking.User = user
	booking.Ticket = ticket

	data := map[string]any{
		"booking_ref":  booking.ID,
		"ticket_count": quantity,
		"total_price":  totalPrice.StringFixed(2),
	}
	if ticket.Event != nil {
		data["event_name"] = ticket.Event.Title
		data["event_date"] = ticket.Event.Date
	}
	s.notifier.Notify(notification.Payload{
		Type:      notification.TypeEmail,
		Recipient: user.Email,
		Template:  notification.TemplateBookingConfirmation,
		Data:      data,
	})

	return booking, nil
}

// CancelBooking releases the booking's units and then flips its status.
// The release happens-before the status write: a crash in between leaves
// inventory correct and the booking pending, which a retried cancel
// resolves.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := s.bookings.FindByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}

	if booking.Status == models.StatusCancelled {
		return nil, ErrBookingAlreadyCancelled
	}

	if booking.Ticket == nil || booking.Ticket.Event == nil {
		return nil, fmt.Errorf("booking %s has no event to check the cancellation window against", bookingID)
	}
	if booking.Ticket.Event.Date.Sub(s.now()) < minCancelLead {
		return nil, ErrCancellationWindowClosed
	}

	if err := s.reservations.Release(ctx, booking.TicketID, booking.Quantity); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, models.StatusCancelled); err != nil {
		// Inventory is already back; the booking stays pending and the
		// cancel can be retried.
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking.Status = models.StatusCancelled

	if booking.User != nil {
		s.notifier.Notify(notification.Payload{
			Type:      notification.TypeEmail,
			Recipient: booking.User.Email,
			Template:  notification.TemplateBookingCancellation,
			Data: map[string]any{
				"booking_ref":   booking.ID,
				"event_name":    booking.Ticket.Event.Title,
				"event_date":    booking.Ticket.Event.Date,
				"refund_amount": booking.TotalPrice.StringFixed(2),
			},
		})
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := s.bookings.FindByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string, page, limit int) ([]models.Booking, int64, error) {
	return s.bookings.FindByUser(ctx, userID, page, limit)
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID string, page, limit int) ([]models.Booking, int64, error) {
	return s.bookings.FindByEvent(ctx, eventID, page, limit)
}

// compensateRelease undoes a reservation whose booking could not be
// persisted. Lock contention is retried briefly: the units must go back
// even if the ticket is busy. Anything still failing after that is
// logged for reconciliation rather than hidden behind the original error.
// The persist failure that triggered the compensation may itself be a
// cancelled request context, so the release runs detached from it.
func (s *bookingService) compensateRelease(ctx context.Context, ticketID string, quantity int) {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 0; attempt < compensateRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(compensateBackoff)
		}
		err = s.reservations.Release(ctx, ticketID, quantity)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrLockUnavailable) {
			break
		}
	}
	s.logger.Error("compensating release failed, inventory needs reconciliation",
		zap.String("ticket_id", ticketID),
		zap.Int("quantity", quantity),
		zap.Error(err))
}
