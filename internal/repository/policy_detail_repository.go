package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
)

// PolicyDetailRepository owns the three variant side tables. Each side row
// shares its id with the base policy row.
type PolicyDetailRepository struct {
	db *sqlx.DB
}

func NewPolicyDetailRepository(db *sqlx.DB) *PolicyDetailRepository {
	return &PolicyDetailRepository{db: db}
}

func (r *PolicyDetailRepository) namedExecTx(ctx context.Context, tx *sqlx.Tx, op, query string, execType utils.ExecType, arg any) error {
	bound, args, err := tx.BindNamed(query, arg)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", op, err)
	}
	if _, err := utils.ExecWithCheck(ctx, tx, bound, execType, args...); err != nil {
		slog.Error("Side table write failed", "op", op, "error", err)
		// The base row exists, so a side row that cannot be overwritten is a
		// broken invariant. Foreign key failures still map to not found.
		if errors.Is(err, utils.ErrNoRowsAffected) {
			return fmt.Errorf("%s: side row missing: %w", op, models.ErrStoreFailure)
		}
		return ClassifyStoreError(op, err)
	}
	return nil
}

// ============================================================================
// GREEN CARD
// ============================================================================

func (r *PolicyDetailRepository) CreateGreenCardTx(ctx context.Context, tx *sqlx.Tx, row *models.GreenCardRow) error {
	query := `
		INSERT INTO green_card_policy (
			id, territory, period_in_units, period_unit, premium, vehicle_id
		) VALUES (
			:id, :territory, :period_in_units, :period_unit, :premium, :vehicle_id
		)`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("create green card %d", row.ID), query, utils.ExecInsert, row)
}

func (r *PolicyDetailRepository) UpdateGreenCardTx(ctx context.Context, tx *sqlx.Tx, row *models.GreenCardRow) error {
	query := `
		UPDATE green_card_policy SET
			territory = :territory,
			period_in_units = :period_in_units,
			period_unit = :period_unit,
			premium = :premium,
			vehicle_id = :vehicle_id
		WHERE id = :id`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("update green card %d", row.ID), query, utils.ExecUpdate, row)
}

func (r *PolicyDetailRepository) GetGreenCard(ctx context.Context, q sqlx.QueryerContext, policyID int64) (*models.GreenCardRow, error) {
	var row models.GreenCardRow
	query := `
		SELECT id, territory, period_in_units, period_unit, premium, vehicle_id
		FROM green_card_policy
		WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &row, query, policyID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get green card %d", policyID), err)
	}
	return &row, nil
}

// ============================================================================
// MEDASSISTANCE
// ============================================================================

func (r *PolicyDetailRepository) CreateMedassistanceTx(ctx context.Context, tx *sqlx.Tx, row *models.MedassistanceRow) error {
	query := `
		INSERT INTO medassistance_policy (
			id, territory, period_days, premium, payout, program
		) VALUES (
			:id, :territory, :period_days, :premium, :payout, :program
		)`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("create medassistance %d", row.ID), query, utils.ExecInsert, row)
}

func (r *PolicyDetailRepository) UpdateMedassistanceTx(ctx context.Context, tx *sqlx.Tx, row *models.MedassistanceRow) error {
	query := `
		UPDATE medassistance_policy SET
			territory = :territory,
			period_days = :period_days,
			premium = :premium,
			payout = :payout,
			program = :program
		WHERE id = :id`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("update medassistance %d", row.ID), query, utils.ExecUpdate, row)
}

func (r *PolicyDetailRepository) GetMedassistance(ctx context.Context, q sqlx.QueryerContext, policyID int64) (*models.MedassistanceRow, error) {
	var row models.MedassistanceRow
	query := `
		SELECT id, territory, period_days, premium, payout, program
		FROM medassistance_policy
		WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &row, query, policyID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get medassistance %d", policyID), err)
	}
	return &row, nil
}

// ============================================================================
// OSAGO
// ============================================================================

func (r *PolicyDetailRepository) CreateOsagoTx(ctx context.Context, tx *sqlx.Tx, row *models.OsagoRow) error {
	query := `
		INSERT INTO osago_policy (
			id, period_in_units, period_unit, zone, exempt, premium, vehicle_id
		) VALUES (
			:id, :period_in_units, :period_unit, :zone, :exempt, :premium, :vehicle_id
		)`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("create osago %d", row.ID), query, utils.ExecInsert, row)
}

func (r *PolicyDetailRepository) UpdateOsagoTx(ctx context.Context, tx *sqlx.Tx, row *models.OsagoRow) error {
	query := `
		UPDATE osago_policy SET
			period_in_units = :period_in_units,
			period_unit = :period_unit,
			zone = :zone,
			exempt = :exempt,
			premium = :premium,
			vehicle_id = :vehicle_id
		WHERE id = :id`
	return r.namedExecTx(ctx, tx, fmt.Sprintf("update osago %d", row.ID), query, utils.ExecUpdate, row)
}

func (r *PolicyDetailRepository) GetOsago(ctx context.Context, q sqlx.QueryerContext, policyID int64) (*models.OsagoRow, error) {
	var row models.OsagoRow
	query := `
		SELECT id, period_in_units, period_unit, zone, exempt, premium, vehicle_id
		FROM osago_policy
		WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &row, query, policyID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get osago %d", policyID), err)
	}
	return &row, nil
}
