package repository

import (
	"context"

	"github.com/tickethub/ticket-booking/internal/models"
	"gorm.io/gorm"
)

type TicketRepository interface {
	FindByID(ctx context.Context, id string) (*models.Ticket, error)
	FindByEventAndType(ctx context.Context, eventID, ticketType string) (*models.Ticket, error)
	FindAvailableByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	AdjustSoldCount(ctx context.Context, ticketID string, delta int) (bool, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Preload("Event").First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByEventAndType(ctx context.Context, eventID, ticketType string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND type = ?", eventID, ticketType).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindAvailableByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND sold_count < quantity", eventID).
		Order("type ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// AdjustSoldCount applies delta to sold_count in a single guarded UPDATE.
// The guard keeps 0 <= sold_count <= quantity; a false return means the
// adjustment would have broken that invariant and nothing was written.
func (r *ticketRepository) AdjustSoldCount(ctx context.Context, ticketID string, delta int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND sold_count + ? BETWEEN 0 AND quantity", ticketID, delta).
		Update("sold_count", gorm.Expr("sold_count + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
