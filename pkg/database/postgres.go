package database

import (
	"log"

	"github.com/tickethub/ticket-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Ticket{}, &models.Booking{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Check constraint: sold_count can never leave [0, quantity], even if
	// some future caller bypasses the guarded update path
	db.Exec(`
		DO $$ BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'chk_tickets_sold_within_quantity'
			) THEN
				ALTER TABLE tickets ADD CONSTRAINT chk_tickets_sold_within_quantity
					CHECK (sold_count >= 0 AND sold_count <= quantity);
			END IF;
		END $$
	`)

	return db
}
