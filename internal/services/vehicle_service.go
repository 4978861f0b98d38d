package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/jmoiron/sqlx"
)

type IVehicleService interface {
	CreateVehicle(ctx context.Context, data *models.VehicleData) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	SearchVehicles(ctx context.Context, term string) ([]models.SearchResult, error)
}

type VehicleService struct {
	tx       txRunner
	vehicles *repository.VehicleRepository
}

func NewVehicleService(db *sqlx.DB, vehicles *repository.VehicleRepository, txTimeout time.Duration) IVehicleService {
	return &VehicleService{
		tx:       newTxRunner(db, txTimeout),
		vehicles: vehicles,
	}
}

func (s *VehicleService) CreateVehicle(ctx context.Context, data *models.VehicleData) (*models.Vehicle, error) {
	return inTxResult(ctx, s.tx, func(ctx context.Context, tx *sqlx.Tx) (*models.Vehicle, error) {
		id, err := s.vehicles.CreateTx(ctx, tx, data)
		if err != nil {
			return nil, err
		}
		return &models.Vehicle{ID: id, VehicleData: *data}, nil
	})
}

func (s *VehicleService) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.vehicles.GetVehicle(ctx, id)
}

func (s *VehicleService) SearchVehicles(ctx context.Context, term string) ([]models.SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term is required", models.ErrInvalidRequest)
	}
	return s.vehicles.Search(ctx, term)
}
