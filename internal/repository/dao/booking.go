package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookingConflict = errors.New("booking conflicts with an existing booking")

type Booking struct {
	ID uint `gorm:"primaryKey"`

	CourtID uint `gorm:"not null;index"`
	UserID  uint `gorm:"not null"`

	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type BookingDAO struct {
	db *gorm.DB
}

func NewBookingDAO(db *gorm.DB) *BookingDAO {
	return &BookingDAO{
		db: db,
	}
}

// InsertNoOverlap reserves [booking.StartTime, booking.EndTime) on the
// court, failing with ErrBookingConflict if any existing booking
// overlaps. The check and the insert run in one transaction under a
// per-court advisory lock, so two concurrent attempts on the same
// court cannot both observe "no conflict". Row locks alone do not
// cover the empty-court case.
func (d *BookingDAO) InsertNoOverlap(ctx context.Context, booking Booking) (Booking, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(booking.CourtID)).Error; err != nil {
			return err
		}

		var existing Booking
		err := tx.Model(&Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("court_id = ?", booking.CourtID).
			Where("start_time < ? AND end_time > ?", booking.EndTime, booking.StartTime).
			Take(&existing).Error

		if err == nil {
			return ErrBookingConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		return Booking{}, err
	}

	return booking, nil
}

// FindByCourtAndRange returns every booking for the court whose
// interval intersects [from, to), ordered by start time.
func (d *BookingDAO) FindByCourtAndRange(ctx context.Context, courtID uint, from, to time.Time) ([]Booking, error) {
	var bookings []Booking

	result := d.db.WithContext(ctx).
		Where("court_id = ?", courtID).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC, id ASC").
		Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}
