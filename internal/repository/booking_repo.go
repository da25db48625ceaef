package repository

import (
	"context"

	"github.com/tickethub/ticket-booking/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.Booking, error)
	FindByUser(ctx context.Context, userID string, page, limit int) ([]models.Booking, int64, error)
	FindByEvent(ctx context.Context, eventID string, page, limit int) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Ticket").
		Preload("Ticket.Event").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID string, page, limit int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Booking{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Ticket").Preload("Ticket.Event").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) FindByEvent(ctx context.Context, eventID string, page, limit int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Booking{}).
		Joins("JOIN tickets ON tickets.id = bookings.ticket_id").
		Where("tickets.event_id = ?", eventID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("User").Preload("Ticket").
		Order("bookings.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}
