package services

import (
	"context"
	"log/slog"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/repository"
)

const dashboardWindowDays = 7

type IDashboardService interface {
	GetDashboard(ctx context.Context) (*models.Dashboard, error)
}

type DashboardService struct {
	repo *repository.DashboardRepository
}

func NewDashboardService(repo *repository.DashboardRepository) IDashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	start := time.Now()

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	birthdays, err := s.repo.UpcomingBirthdays(ctx, dashboardWindowDays)
	if err != nil {
		return nil, err
	}
	expiring, err := s.repo.ExpiringPolicies(ctx, dashboardWindowDays)
	if err != nil {
		return nil, err
	}

	slog.Debug("Built dashboard", "duration", time.Since(start))
	return &models.Dashboard{
		Counts:            *counts,
		UpcomingBirthdays: birthdays,
		ExpiringPolicies:  expiring,
	}, nil
}
