package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, policy *models.Policy) (int64, error) {
	start := time.Now()
	query := `
		INSERT INTO policy (
			type, holder_id, series, number, start_date, end_date, status
		) VALUES (
			:type, :holder_id, :series, :number, :start_date, :end_date, :status
		) RETURNING id`

	bound, args, err := tx.BindNamed(query, policy)
	if err != nil {
		return 0, fmt.Errorf("failed to bind policy insert: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			slog.Warn("Duplicate policy series and number",
				"series", policy.Series,
				"number", policy.Number)
			return 0, ClassifyStoreError("create policy", err)
		}
		slog.Error("Failed to create policy",
			"policy_type", policy.Type,
			"series", policy.Series,
			"number", policy.Number,
			"error", err)
		return 0, ClassifyStoreError("create policy", err)
	}

	slog.Info("Created policy row",
		"policy_id", id,
		"policy_type", policy.Type,
		"duration", time.Since(start))
	return id, nil
}

// UpdateTx overwrites the mutable base columns. The type column is never
// written after creation.
func (r *PolicyRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, policy *models.Policy) error {
	start := time.Now()
	query := `
		UPDATE policy SET
			holder_id = :holder_id,
			series = :series,
			number = :number,
			start_date = :start_date,
			end_date = :end_date,
			status = :status
		WHERE id = :id`

	bound, args, err := tx.BindNamed(query, policy)
	if err != nil {
		return fmt.Errorf("failed to bind policy update: %w", err)
	}

	if _, err := utils.ExecWithCheck(ctx, tx, bound, utils.ExecUpdate, args...); err != nil {
		slog.Error("Failed to update policy", "policy_id", policy.ID, "error", err)
		return ClassifyStoreError(fmt.Sprintf("update policy %d", policy.ID), err)
	}

	slog.Info("Updated policy row", "policy_id", policy.ID, "duration", time.Since(start))
	return nil
}

// LockTypeTx reads the stored type and holds a row lock until the
// transaction ends.
func (r *PolicyRepository) LockTypeTx(ctx context.Context, tx *sqlx.Tx, id int64) (models.PolicyType, error) {
	var policyType models.PolicyType
	query := `SELECT type FROM policy WHERE id = $1 FOR UPDATE`

	if err := tx.GetContext(ctx, &policyType, query, id); err != nil {
		return "", ClassifyStoreError(fmt.Sprintf("policy %d", id), err)
	}
	return policyType, nil
}

func (r *PolicyRepository) GetByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Policy, error) {
	var policy models.Policy
	query := `
		SELECT id, type, holder_id, series, number, start_date, end_date, status
		FROM policy
		WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &policy, query, id); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get policy %d", id), err)
	}
	return &policy, nil
}

const policyShortSelect = `
		SELECT
			p.id,
			p.type AS policy_type,
			h.first_name || ' ' || h.last_name AS holder_name,
			p.series,
			p.number,
			p.start_date,
			p.end_date,
			p.status,
			v.model AS car_model,
			v.plate AS car_plate,
			(
				SELECT string_agg(a.full_name, ', ' ORDER BY a.full_name)
				FROM agent_policy ap
				JOIN agent a ON a.id = ap.agent_id
				WHERE ap.policy_id = p.id
			) AS agent_names
		FROM policy p
		JOIN person h ON h.id = p.holder_id
		LEFT JOIN green_card_policy gc ON gc.id = p.id
		LEFT JOIN osago_policy op ON op.id = p.id
		LEFT JOIN vehicle v ON v.id = COALESCE(gc.vehicle_id, op.vehicle_id)`

func (r *PolicyRepository) List(ctx context.Context) ([]models.PolicyShort, error) {
	start := time.Now()
	policies := []models.PolicyShort{}
	query := policyShortSelect + `
		ORDER BY p.start_date DESC, p.id DESC`

	if err := sqlx.SelectContext(ctx, r.db, &policies, query); err != nil {
		slog.Error("Failed to list policies", "error", err)
		return nil, ClassifyStoreError("list policies", err)
	}

	slog.Debug("Listed policies", "count", len(policies), "duration", time.Since(start))
	return policies, nil
}

// ListForPerson returns policies where the person is holder or a
// medassistance member.
func (r *PolicyRepository) ListForPerson(ctx context.Context, personID int64) ([]models.PolicyShort, error) {
	policies := []models.PolicyShort{}
	query := policyShortSelect + `
		WHERE p.holder_id = $1
			OR EXISTS (
				SELECT 1 FROM medassistance_policy_member m
				WHERE m.medassistance_policy_id = p.id AND m.member_id = $1
			)
		ORDER BY p.start_date DESC, p.id DESC`

	if err := sqlx.SelectContext(ctx, r.db, &policies, query, personID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("list policies of person %d", personID), err)
	}
	return policies, nil
}

// AddAgentsTx links the given agents. An unknown agent id fails the foreign
// key and surfaces as not found.
func (r *PolicyRepository) AddAgentsTx(ctx context.Context, tx *sqlx.Tx, policyID int64, agentIDs []int64) error {
	if len(agentIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO agent_policy (agent_id, policy_id)
		SELECT agent_id, $1 FROM unnest($2::bigint[]) AS agent_id
		ON CONFLICT DO NOTHING`

	if _, err := tx.ExecContext(ctx, query, policyID, pq.Array(agentIDs)); err != nil {
		slog.Error("Failed to link agents", "policy_id", policyID, "agent_ids", agentIDs, "error", err)
		return ClassifyStoreError(fmt.Sprintf("link agents to policy %d", policyID), err)
	}
	return nil
}

func (r *PolicyRepository) RemoveAgentsTx(ctx context.Context, tx *sqlx.Tx, policyID int64) error {
	query := `DELETE FROM agent_policy WHERE policy_id = $1`

	if _, err := utils.ExecWithCheck(ctx, tx, query, utils.ExecDelete, policyID); err != nil {
		return ClassifyStoreError(fmt.Sprintf("unlink agents from policy %d", policyID), err)
	}
	return nil
}

func (r *PolicyRepository) ListAgents(ctx context.Context, q sqlx.QueryerContext, policyID int64) ([]models.Agent, error) {
	agents := []models.Agent{}
	query := `
		SELECT a.id, a.full_name
		FROM agent a
		JOIN agent_policy ap ON ap.agent_id = a.id
		WHERE ap.policy_id = $1
		ORDER BY a.full_name`

	if err := sqlx.SelectContext(ctx, q, &agents, query, policyID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("list agents of policy %d", policyID), err)
	}
	return agents, nil
}
