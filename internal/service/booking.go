package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository"
)

var (
	ErrBookingConflict = repository.ErrBookingConflict
	ErrInvalidDuration = errors.New("duration must be greater than zero")
)

type BookingRepository interface {
	CreateNoOverlap(ctx context.Context, booking domain.Booking) (domain.Booking, error)
}

type BookingService struct {
	repo      BookingRepository
	courtRepo CourtRepository
}

func NewBookingService(repo BookingRepository, courtRepo CourtRepository) *BookingService {
	return &BookingService{
		repo:      repo,
		courtRepo: courtRepo,
	}
}

// BookSlot reserves [start, start+duration) on the court for the user.
// The conflict check and the insert are one atomic operation in the
// repository, so two racing requests for overlapping intervals cannot
// both succeed. The interval is not validated against the court's
// operating hours; callers book from the slots the API handed out.
func (s *BookingService) BookSlot(ctx context.Context, courtID, userID uint, start time.Time, durationMinutes int) (domain.Booking, error) {
	if durationMinutes <= 0 {
		return domain.Booking{}, ErrInvalidDuration
	}

	if _, err := s.courtRepo.FindByID(ctx, courtID); err != nil {
		return domain.Booking{}, fmt.Errorf("s.courtRepo.FindByID -> %w", err)
	}

	booking := domain.Booking{
		CourtID:   courtID,
		UserID:    userID,
		StartTime: start.UTC(),
		EndTime:   start.UTC().Add(time.Duration(durationMinutes) * time.Minute),
	}

	created, err := s.repo.CreateNoOverlap(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.CreateNoOverlap -> %w", err)
	}

	return created, nil
}
