package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/jmoiron/sqlx"
)

type writeMode int

const (
	writeCreate writeMode = iota
	writeOverwrite
)

// VariantStore maps each policy type onto its side table. Writes resolve the
// vehicle or member references first so every foreign key points at an
// existing row by the time the side row is written.
type VariantStore struct {
	details  *repository.PolicyDetailRepository
	vehicles *repository.VehicleRepository
	members  *repository.MembershipRepository
	resolver *EntityResolver[models.VehicleData]
	roster   *MembershipReconciler
}

func NewVariantStore(
	details *repository.PolicyDetailRepository,
	vehicles *repository.VehicleRepository,
	members *repository.MembershipRepository,
	vehicleResolver *EntityResolver[models.VehicleData],
	roster *MembershipReconciler,
) *VariantStore {
	return &VariantStore{
		details:  details,
		vehicles: vehicles,
		members:  members,
		resolver: vehicleResolver,
		roster:   roster,
	}
}

// CreateDetail writes the side row for a freshly inserted policy.
func (s *VariantStore) CreateDetail(ctx context.Context, tx *sqlx.Tx, policyID int64, data models.PolicyData) error {
	return s.writeDetail(ctx, tx, policyID, data, writeCreate)
}

// OverwriteDetail replaces every column of an existing side row. The caller
// guarantees the row exists and has the type of data.
func (s *VariantStore) OverwriteDetail(ctx context.Context, tx *sqlx.Tx, policyID int64, data models.PolicyData) error {
	return s.writeDetail(ctx, tx, policyID, data, writeOverwrite)
}

func (s *VariantStore) writeDetail(ctx context.Context, tx *sqlx.Tx, policyID int64, data models.PolicyData, mode writeMode) error {
	switch data.Type {
	case models.PolicyTypeGreenCard:
		d := data.GreenCard
		vehicleID, err := s.resolver.Resolve(ctx, tx, d.Vehicle)
		if err != nil {
			return err
		}
		row := &models.GreenCardRow{
			ID:            policyID,
			Territory:     d.Territory,
			PeriodInUnits: d.PeriodInUnits,
			PeriodUnit:    d.PeriodUnit,
			Premium:       d.Premium,
			VehicleID:     vehicleID,
		}
		if mode == writeCreate {
			return s.details.CreateGreenCardTx(ctx, tx, row)
		}
		return s.details.UpdateGreenCardTx(ctx, tx, row)

	case models.PolicyTypeMedassistance:
		d := data.Medassistance
		row := &models.MedassistanceRow{
			ID:         policyID,
			Territory:  d.Territory,
			PeriodDays: d.PeriodDays,
			Premium:    d.Premium,
			Payout:     d.Payout,
			Program:    d.Program,
		}
		var err error
		if mode == writeCreate {
			err = s.details.CreateMedassistanceTx(ctx, tx, row)
		} else {
			err = s.details.UpdateMedassistanceTx(ctx, tx, row)
		}
		if err != nil {
			return err
		}
		_, err = s.roster.Reconcile(ctx, tx, policyID, d.Members)
		return err

	case models.PolicyTypeOsago:
		d := data.Osago
		vehicleID, err := s.resolver.Resolve(ctx, tx, d.Vehicle)
		if err != nil {
			return err
		}
		row := &models.OsagoRow{
			ID:            policyID,
			PeriodInUnits: d.PeriodInUnits,
			PeriodUnit:    d.PeriodUnit,
			Zone:          d.Zone,
			Exempt:        d.Exempt,
			Premium:       d.Premium,
			VehicleID:     vehicleID,
		}
		if mode == writeCreate {
			return s.details.CreateOsagoTx(ctx, tx, row)
		}
		return s.details.UpdateOsagoTx(ctx, tx, row)
	}

	return fmt.Errorf("%w: unknown policy_type %q", models.ErrInvalidRequest, data.Type)
}

// LoadDetail reads the side row for policyType together with its vehicle or
// member rows.
func (s *VariantStore) LoadDetail(ctx context.Context, q sqlx.QueryerContext, policyID int64, policyType models.PolicyType) (models.PolicyDetails, error) {
	details := models.PolicyDetails{Type: policyType}

	switch policyType {
	case models.PolicyTypeGreenCard:
		row, err := s.details.GetGreenCard(ctx, q, policyID)
		if err != nil {
			return details, s.missingSideRow(policyID, policyType, err)
		}
		vehicle, err := s.vehicles.GetByID(ctx, q, row.VehicleID)
		if err != nil {
			return details, err
		}
		details.GreenCard = &models.GreenCardDetails{
			Territory:     row.Territory,
			PeriodInUnits: row.PeriodInUnits,
			PeriodUnit:    row.PeriodUnit,
			Premium:       row.Premium,
			Vehicle:       *vehicle,
		}

	case models.PolicyTypeMedassistance:
		row, err := s.details.GetMedassistance(ctx, q, policyID)
		if err != nil {
			return details, s.missingSideRow(policyID, policyType, err)
		}
		members, err := s.members.ListMembers(ctx, q, policyID)
		if err != nil {
			return details, err
		}
		details.Medassistance = &models.MedassistanceDetails{
			Territory:  row.Territory,
			PeriodDays: row.PeriodDays,
			Premium:    row.Premium,
			Payout:     row.Payout,
			Program:    row.Program,
			Members:    members,
		}

	case models.PolicyTypeOsago:
		row, err := s.details.GetOsago(ctx, q, policyID)
		if err != nil {
			return details, s.missingSideRow(policyID, policyType, err)
		}
		vehicle, err := s.vehicles.GetByID(ctx, q, row.VehicleID)
		if err != nil {
			return details, err
		}
		details.Osago = &models.OsagoDetails{
			PeriodInUnits: row.PeriodInUnits,
			PeriodUnit:    row.PeriodUnit,
			Zone:          row.Zone,
			Exempt:        row.Exempt,
			Premium:       row.Premium,
			Vehicle:       *vehicle,
		}

	default:
		return details, fmt.Errorf("policy %d has unknown type %q: %w", policyID, policyType, models.ErrStoreFailure)
	}

	return details, nil
}

// A base row without its side row breaks the storage invariant, so it is a
// store failure rather than not found.
func (s *VariantStore) missingSideRow(policyID int64, policyType models.PolicyType, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		slog.Error("Policy side row missing", "policy_id", policyID, "policy_type", policyType)
		return fmt.Errorf("policy %d: %s side row missing: %w", policyID, policyType, models.ErrStoreFailure)
	}
	return err
}
