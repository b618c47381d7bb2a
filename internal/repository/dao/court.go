package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrCourtNotFound = errors.New("court not found")

type Court struct {
	ID uint `gorm:"primaryKey"`

	Name     string `gorm:"not null"`
	Location string `gorm:"not null"`

	Latitude  float64
	Longitude float64

	// Time of day as "HH:MM". A close time earlier than the open time
	// means the court closes on the following day.
	OpenTime  string `gorm:"not null"`
	CloseTime string `gorm:"not null"`
}

type CourtDAO struct {
	db *gorm.DB
}

func NewCourtDAO(db *gorm.DB) *CourtDAO {
	return &CourtDAO{
		db: db,
	}
}

func (d *CourtDAO) FindAll(ctx context.Context) ([]Court, error) {
	var courts []Court

	result := d.db.WithContext(ctx).Order("id ASC").Find(&courts)
	if result.Error != nil {
		return nil, result.Error
	}

	return courts, nil
}

func (d *CourtDAO) FindByID(ctx context.Context, id uint) (Court, error) {
	var court Court

	result := d.db.WithContext(ctx).First(&court, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Court{}, ErrCourtNotFound
		}

		return Court{}, result.Error
	}

	return court, nil
}
