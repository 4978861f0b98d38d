package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
)

const vehicleColumns = `id, chassis, make, model, registration, plate, year, engine_displacement_cc,
		mileage_km, unladen_weight_kg, laden_weight_kg, seats`

type VehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, data *models.VehicleData) (int64, error) {
	start := time.Now()
	query := `
		INSERT INTO vehicle (
			chassis, make, model, registration, plate, year, engine_displacement_cc,
			mileage_km, unladen_weight_kg, laden_weight_kg, seats
		) VALUES (
			:chassis, :make, :model, :registration, :plate, :year, :engine_displacement_cc,
			:mileage_km, :unladen_weight_kg, :laden_weight_kg, :seats
		) RETURNING id`

	bound, args, err := tx.BindNamed(query, data)
	if err != nil {
		return 0, fmt.Errorf("failed to bind vehicle insert: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		slog.Error("Failed to create vehicle", "plate", data.Plate, "error", err)
		return 0, ClassifyStoreError("create vehicle", err)
	}

	slog.Info("Created vehicle", "vehicle_id", id, "plate", data.Plate, "duration", time.Since(start))
	return id, nil
}

func (r *VehicleRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, id int64, data *models.VehicleData) error {
	start := time.Now()
	query := `
		UPDATE vehicle SET
			chassis = :chassis,
			make = :make,
			model = :model,
			registration = :registration,
			plate = :plate,
			year = :year,
			engine_displacement_cc = :engine_displacement_cc,
			mileage_km = :mileage_km,
			unladen_weight_kg = :unladen_weight_kg,
			laden_weight_kg = :laden_weight_kg,
			seats = :seats
		WHERE id = :id`

	bound, args, err := tx.BindNamed(query, models.Vehicle{ID: id, VehicleData: *data})
	if err != nil {
		return fmt.Errorf("failed to bind vehicle update: %w", err)
	}

	if _, err := utils.ExecWithCheck(ctx, tx, bound, utils.ExecUpdate, args...); err != nil {
		slog.Warn("Failed to update vehicle", "vehicle_id", id, "error", err)
		return ClassifyStoreError(fmt.Sprintf("update vehicle %d", id), err)
	}

	slog.Info("Updated vehicle", "vehicle_id", id, "duration", time.Since(start))
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	query := `SELECT ` + vehicleColumns + ` FROM vehicle WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &vehicle, query, id); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get vehicle %d", id), err)
	}
	return &vehicle, nil
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return r.GetByID(ctx, r.db, id)
}

// Search matches plate, make or model and labels hits as "plate (make model)".
func (r *VehicleRepository) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := `
		SELECT id, plate || ' (' || make || ' ' || model || ')' AS label
		FROM vehicle
		WHERE LOWER(plate) LIKE $1 OR LOWER(make || ' ' || model) LIKE $1 OR LOWER(chassis) LIKE $1
		ORDER BY plate
		LIMIT 50`

	if err := sqlx.SelectContext(ctx, r.db, &results, query, pattern); err != nil {
		return nil, ClassifyStoreError("search vehicles", err)
	}
	return results, nil
}
