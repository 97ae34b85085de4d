package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the constraints and indexes the reservation engine
// depends on and that AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	// One BookingSeat row per (booking, seat) pair
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_seats_booking_seat
		ON booking_seats (booking_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// The sweeper scans reserved seats by expiry; a partial index keeps the
	// scan cheap regardless of table size
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_reserved_until
		ON seats (reserved_until)
		WHERE status = 'reserved';
	`).Error
	if err != nil {
		return err
	}

	// Availability listings walk eligible seats per event in code order
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_event_status_code
		ON seats (event_id, status, seat_code);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
