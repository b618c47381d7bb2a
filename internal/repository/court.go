package repository

import (
	"context"
	"fmt"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/repository/dao"
)

var ErrCourtNotFound = dao.ErrCourtNotFound

type CourtDAO interface {
	FindAll(ctx context.Context) ([]dao.Court, error)
	FindByID(ctx context.Context, id uint) (dao.Court, error)
}

type CourtRepository struct {
	dao CourtDAO
}

func NewCourtRepository(dao CourtDAO) *CourtRepository {
	return &CourtRepository{
		dao: dao,
	}
}

func (r *CourtRepository) FindAll(ctx context.Context) ([]domain.Court, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	courts := make([]domain.Court, len(found))
	for i, c := range found {
		courts[i] = r.daoToDomain(c)
	}

	return courts, nil
}

func (r *CourtRepository) FindByID(ctx context.Context, id uint) (domain.Court, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Court{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CourtRepository) daoToDomain(c dao.Court) domain.Court {
	return domain.Court{
		ID:        c.ID,
		Name:      c.Name,
		Location:  c.Location,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		OpenTime:  c.OpenTime,
		CloseTime: c.CloseTime,
	}
}
