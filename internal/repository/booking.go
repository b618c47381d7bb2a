package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository/dao"
)

var ErrBookingConflict = dao.ErrBookingConflict

type BookingDAO interface {
	InsertNoOverlap(ctx context.Context, booking dao.Booking) (dao.Booking, error)
	FindByCourtAndRange(ctx context.Context, courtID uint, from, to time.Time) ([]dao.Booking, error)
}

type BookingRepository struct {
	dao BookingDAO
}

func NewBookingRepository(dao BookingDAO) *BookingRepository {
	return &BookingRepository{
		dao: dao,
	}
}

func (r *BookingRepository) CreateNoOverlap(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	created, err := r.dao.InsertNoOverlap(ctx, dao.Booking{
		CourtID:   booking.CourtID,
		UserID:    booking.UserID,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.InsertNoOverlap -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BookingRepository) FindByCourtAndRange(ctx context.Context, courtID uint, from, to time.Time) ([]domain.Booking, error) {
	found, err := r.dao.FindByCourtAndRange(ctx, courtID, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCourtAndRange -> %w", err)
	}

	bookings := make([]domain.Booking, len(found))
	for i, b := range found {
		bookings[i] = r.daoToDomain(b)
	}

	return bookings, nil
}

func (r *BookingRepository) daoToDomain(b dao.Booking) domain.Booking {
	return domain.Booking{
		ID:        b.ID,
		CourtID:   b.CourtID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
