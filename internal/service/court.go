package service

import (
	"context"
	"fmt"
	"time"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository"
)

var ErrCourtNotFound = repository.ErrCourtNotFound

type CourtRepository interface {
	FindAll(ctx context.Context) ([]domain.Court, error)
	FindByID(ctx context.Context, id uint) (domain.Court, error)
}

type CourtBookingReader interface {
	FindByCourtAndRange(ctx context.Context, courtID uint, from, to time.Time) ([]domain.Booking, error)
}

type CourtService struct {
	repo        CourtRepository
	bookingRepo CourtBookingReader
	slotSize    time.Duration
}

func NewCourtService(repo CourtRepository, bookingRepo CourtBookingReader, slotMinutes int) *CourtService {
	return &CourtService{
		repo:        repo,
		bookingRepo: bookingRepo,
		slotSize:    time.Duration(slotMinutes) * time.Minute,
	}
}

func (s *CourtService) GetCourts(ctx context.Context) ([]domain.Court, error) {
	courts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return courts, nil
}

// GetAvailableSlots computes the bookable units for a court on a date:
// the operating window minus existing bookings, split into fixed-size
// slots. Slots are derived per call and never persisted.
func (s *CourtService) GetAvailableSlots(ctx context.Context, courtID uint, date time.Time) ([]domain.AvailableSlot, error) {
	court, err := s.repo.FindByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	window, err := operatingWindow(court, date)
	if err != nil {
		return nil, fmt.Errorf("operatingWindow -> %w", err)
	}

	booked, err := s.bookingRepo.FindByCourtAndRange(ctx, courtID, window.start, window.end)
	if err != nil {
		return nil, fmt.Errorf("s.bookingRepo.FindByCourtAndRange -> %w", err)
	}

	return splitIntervals(freeIntervals(window, booked), s.slotSize), nil
}
