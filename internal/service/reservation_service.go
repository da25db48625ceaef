package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tickethub/ticket-booking/internal/lock"
	"github.com/tickethub/ticket-booking/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrLockUnavailable     = errors.New("ticket is locked by another request")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketUnavailable   = errors.New("not enough tickets available")
	ErrInvalidReleaseState = errors.New("no reserved tickets to release")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
)

// DefaultLockTTL is a safety valve against a holder crashing mid-section,
// far above any expected critical-section duration. Expiry under normal
// operation must never happen.
const DefaultLockTTL = 60 * time.Second

type ReservationService interface {
	Reserve(ctx context.Context, ticketID, holderID string, quantity int) error
	Release(ctx context.Context, ticketID string, quantity int) error
}

type reservationService struct {
	tickets repository.TicketRepository
	locker  lock.Locker
	lockTTL time.Duration
	logger  *zap.Logger
}

func NewReservationService(tickets repository.TicketRepository, locker lock.Locker, lockTTL time.Duration, logger *zap.Logger) ReservationService {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &reservationService{
		tickets: tickets,
		locker:  locker,
		lockTTL: lockTTL,
		logger:  logger,
	}
}

// Reserve claims quantity units of the ticket under the ticket's lock.
// Contention surfaces as ErrLockUnavailable; retry policy belongs to the
// caller. The availability check and the increment run against the same
// lock-serialized view, and the increment itself is a guarded UPDATE so
// sold_count can never pass quantity even if the lock were to expire
// mid-section.
func (s *reservationService) Reserve(ctx context.Context, ticketID, holderID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	key := lock.TicketKey(ticketID)
	acquired, err := s.locker.Acquire(ctx, key, holderID, s.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire ticket lock: %w", err)
	}
	if !acquired {
		return ErrLockUnavailable
	}
	defer s.unlock(ctx, key, ticketID)

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("load ticket: %w", err)
	}
	if ticket.Available() < quantity {
		return ErrTicketUnavailable
	}

	ok, err := s.tickets.AdjustSoldCount(ctx, ticketID, quantity)
	if err != nil {
		return fmt.Errorf("increment sold count: %w", err)
	}
	if !ok {
		return ErrTicketUnavailable
	}
	return nil
}

// Release returns quantity units to inventory. It takes the same lock as
// Reserve so concurrent reserve/release on one ticket stay serialized.
// Releasing more than is currently reserved is a caller bug and is
// surfaced as ErrInvalidReleaseState rather than clamped.
func (s *reservationService) Release(ctx context.Context, ticketID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	key := lock.TicketKey(ticketID)
	acquired, err := s.locker.Acquire(ctx, key, uuid.NewString(), s.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire ticket lock: %w", err)
	}
	if !acquired {
		return ErrLockUnavailable
	}
	defer s.unlock(ctx, key, ticketID)

	ok, err := s.tickets.AdjustSoldCount(ctx, ticketID, -quantity)
	if err != nil {
		return fmt.Errorf("decrement sold count: %w", err)
	}
	if !ok {
		s.logger.Error("release exceeds reserved units",
			zap.String("ticket_id", ticketID),
			zap.Int("quantity", quantity))
		return ErrInvalidReleaseState
	}
	return nil
}

// unlock always runs, even when the surrounding operation failed or the
// request context was cancelled, so a ticket is never left locked beyond
// its TTL.
func (s *reservationService) unlock(ctx context.Context, key, ticketID string) {
	if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("failed to release ticket lock, waiting on TTL expiry",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
	}
}
